package consts

const (
	ParamSeed = "seed"
	ParamURL  = "url"
	ParamSize = "size"
)
