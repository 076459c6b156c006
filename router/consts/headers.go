package consts

const (
	HeaderCacheControl = "Cache-Control"
	HeaderETag         = "ETag"
	HeaderIfMatch      = "If-Match"
	HeaderIfNoneMatch  = "If-None-Match"
	HeaderLink         = "Link"
	HeaderCloudTrace   = "X-Cloud-Trace-Context"
	HeaderVersion      = "X-IDENTFAVICON-VERSION"
	HeaderIconHost     = "X-IDENTFAVICON-HOST"
)

const (
	MimeImagePNG = "image/png"
)
