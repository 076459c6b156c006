package identicon

const mulberryIncrement uint32 = 0x6D2B79F5

// Mulberry32 ハッシュ値から決定的な乱数列を生成する疑似乱数生成器
//
// 並行利用は想定していません。生成ごとに新しく作ってください。
type Mulberry32 struct {
	state uint32
}

// NewMulberry32 seedを初期状態とするMulberry32を返します
func NewMulberry32(seed uint32) *Mulberry32 {
	return &Mulberry32{state: seed}
}

// Float64 [0, 1)の次の値を返します
func (m *Mulberry32) Float64() float64 {
	m.state += mulberryIncrement
	t := m.state
	t = (t ^ t>>15) * (t | 1)
	t ^= t + (t^t>>7)*(t|61)
	return float64(t^t>>14) / (1 << 32)
}
