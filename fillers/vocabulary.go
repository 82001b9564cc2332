package fillers

// Russian is the default filler vocabulary.
var Russian = []string{
	"ну", "это", "типа", "короче", "значит", "вот",
	"как бы", "так сказать", "угу", "ага", "ээ", "мм",
	"в общем", "собственно", "допустим", "слушай", "блин",
	"прикинь", "реально", "конкретно",
}
