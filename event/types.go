package event

const (
	// PageNavigated ページの遷移が発生した
	//	Fields:
	//		url: string
	PageNavigated = "page.navigated"
	// HeadMutated ページのhead要素に子要素が追加された
	//	Fields:
	//		url: string
	HeadMutated = "page.head_mutated"
	// IdenticonGenerated ページ用のidenticonが生成された
	//	Fields:
	//		url: string
	//		host: string
	//		size: int
	//		png: []byte
	IdenticonGenerated = "identicon.generated"
	// FaviconFound ページが既にfaviconを持っていた
	//	Fields:
	//		url: string
	//		host: string
	//		links: []string
	FaviconFound = "favicon.found"
)
