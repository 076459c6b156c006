package identicon

import "unicode/utf16"

const (
	fnvOffsetBasis uint32 = 2166136261
	fnvPrime       uint32 = 16777619
)

// Hash シード文字列を32bitのハッシュ値(FNV-1a)に変換します
//
// ブラウザ実装と同じ値を得るため、UTF-16のコードユニット単位で計算します。
// 不正なUTF-8のバイト列はU+FFFDとして扱われます。
func Hash(seed string) uint32 {
	h := fnvOffsetBasis
	for _, c := range utf16.Encode([]rune(seed)) {
		h ^= uint32(c)
		h *= fnvPrime
	}
	return h
}
