package classify

import "regexp"

// This file holds the vocabulary tables the tokenizer, the distinctive-token
// filter, and the evidence scorer are driven by.  They are configuration data,
// not logic: tuning a table must never require touching an algorithm, and each
// table is unit-tested on its own.
//
// Product text arrives in mixed Japanese/Latin script, so every category is
// enumerated in both.

// compoundKeywords are attribute words that commonly appear glued to their
// neighbours in product names ("紳士用Lサイズ靴下メンズ").  The tokenizer
// inserts spaces around every occurrence before normalization so they come
// out as standalone tokens.
var compoundKeywords = []string{
	"メンズ",
	"レディース",
	"レディス",
	"キッズ",
	"ベビー",
	"ジュニア",
	"ユニセックス",
	"男女兼用",
	"大人用",
	"子供用",
	"男性用",
	"女性用",
	"紳士用",
	"婦人用",
	"詰め替え",
	"詰替",
	"大容量",
	"特大",
	"徳用",
	"セット",
}

// genderAgeTokens are category words that describe who a product variant is
// for, not what the product is.
var genderAgeTokens = map[string]struct{}{
	"メンズ": {}, "レディース": {}, "レディス": {}, "キッズ": {}, "ベビー": {},
	"ジュニア": {}, "ユニセックス": {}, "男女兼用": {}, "大人用": {}, "子供用": {},
	"男性用": {}, "女性用": {}, "紳士用": {}, "婦人用": {}, "紳士": {}, "婦人": {},
	"mens": {}, "men": {}, "womens": {}, "women": {}, "ladies": {},
	"kids": {}, "baby": {}, "junior": {}, "unisex": {}, "boys": {}, "girls": {},
}

// sizeCodePattern matches apparel size codes as whole tokens.  Tokens are
// already lowercased by the normalizer.
var sizeCodePattern = regexp.MustCompile(`^(xs|s|m|l|xl|xxl|xxxl|ll|3l|4l|5l)$`)

// quantityPattern matches quantity/measurement tokens: digits immediately
// followed by a unit from the fixed vocabulary (volume, weight, length, count).
var quantityPattern = regexp.MustCompile(`^[0-9]+(ml|cl|dl|l|cc|oz|g|kg|mg|cm|mm|m|号|個|枚|本|袋|箱|組|足|巻|包|粒|錠|膳|p|pc|pcs|set|セット|ケース|パック|個入|枚入|本入)$`)

// colorTokens are common color names in Latin and Japanese scripts.  Color is
// a variant attribute and never identifies the product itself.
var colorTokens = map[string]struct{}{
	"black": {}, "white": {}, "red": {}, "blue": {}, "green": {}, "yellow": {},
	"pink": {}, "purple": {}, "brown": {}, "gray": {}, "grey": {}, "beige": {},
	"navy": {}, "gold": {}, "silver": {}, "orange": {}, "khaki": {},
	"黒": {}, "白": {}, "赤": {}, "青": {}, "緑": {}, "黄": {}, "桃": {},
	"紫": {}, "茶": {}, "灰": {}, "金": {}, "銀": {}, "黒色": {}, "白色": {},
	"ブラック": {}, "ホワイト": {}, "レッド": {}, "ブルー": {}, "グリーン": {},
	"イエロー": {}, "ピンク": {}, "パープル": {}, "ブラウン": {}, "グレー": {},
	"ベージュ": {}, "ネイビー": {}, "ゴールド": {}, "シルバー": {}, "オレンジ": {},
}

// noiseTokenPattern matches short ASCII letter/digit tokens (variant codes
// like "ll", "01", "ab3").  Short ideograph tokens such as 沈香 carry identity
// and are deliberately not matched.
var noiseTokenPattern = regexp.MustCompile(`^[0-9a-z]{1,3}$`)

// corporateSuffixes are legal-entity markers and company-type abbreviations
// stripped from maker names before tokenization.  Longer forms come first so
// that "co., ltd." is removed before its fragments would be.
var corporateSuffixes = []string{
	"株式会社", "有限会社", "合同会社", "合名会社", "合資会社",
	"(株)", "(有)", "（株）", "（有）",
	"co., ltd.", "co.,ltd.", "co., ltd", "co.,ltd", "co. ltd", "co ltd",
	"corporation", "incorporated", "company", "holdings",
	"ltd.", "ltd", "inc.", "inc", "corp.", "corp", "llc", "gmbh",
	"k.k.", "kk",
}

// makerStopwords are residual legal-entity fragments that survive suffix
// stripping and tokenization; they never help identify a maker.
var makerStopwords = map[string]struct{}{
	"co": {}, "ltd": {}, "inc": {}, "corp": {}, "kk": {}, "llc": {},
	"gmbh": {}, "company": {}, "holdings": {}, "株式会社": {}, "有限会社": {},
	"合同会社": {},
}

// negativeSignalTerms flag evidence sources that describe a place, a trip, or
// an encyclopedia topic rather than a product.  A source whose text contains
// any of these counts as a negative hit.
var negativeSignalTerms = []string{
	"観光", "旅行", "温泉", "ホテル", "旅館", "名所", "史跡", "地図",
	"天気", "宿泊", "グルメ", "歴史", "百科事典",
	"travel", "tourism", "tourist", "sightseeing", "attraction",
	"wikipedia", "wiki", "encyclopedia", "weather", "guide", "hotel",
}

// defaultProductDomains are marketplace / product-site hostname fragments.
// Evidence hosted on one of these is presumed to describe a purchasable
// product, which suppresses the strong-mismatch verdict.
var defaultProductDomains = []string{
	"amazon", "rakuten", "shopping.yahoo", "aliexpress", "alibaba",
	"ebay", "etsy", "mercari", "monotaro", "askul", "yodobashi",
	"biccamera", "zozo",
}

// defaultNonProductDomains are reference/non-commercial hostname fragments
// (encyclopedias, weather, travel portals).  High-ranked evidence from these
// suggests the research drifted to a place or topic of the same name.
var defaultNonProductDomains = []string{
	"wikipedia", "wiktionary", "weblio", "kotobank", "tripadvisor",
	"jalan", "booking", "weathernews", "tenki.jp", "japan-guide",
}

//Personal.AI order the ending
