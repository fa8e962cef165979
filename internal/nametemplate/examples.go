package nametemplate

// Example is a ready-made template shown by "template examples".
type Example struct {
	Template    string
	Description string
}

// Examples lists the built-in templates in display order.
func Examples() []Example {
	return []Example{
		{Default, "date and time with a 3 digit counter"},
		{"screenshot_{####}", "4 digit counter only"},
		{"{yyyy-MM-dd}/shot_{###}", "one folder per day"},
		{"{yyyyMMdd}_{HHmmss}_{fff}", "timestamp with milliseconds"},
		{"capture_{yyyy}_{MM}_{dd}_{##}", "separated date parts"},
		{"{yyyy}/{MMMM}/{dd}_{HH-mm-ss}", "year and month folders"},
		{"page_{###}", "numbered pages for documents"},
	}
}

// Placeholder documents one supported placeholder token.
type Placeholder struct {
	Token   string
	Meaning string
}

// Placeholders lists the tokens understood inside {...}.
func Placeholders() []Placeholder {
	return []Placeholder{
		{"#, ##, ###", "capture counter padded to the number of #"},
		{"yyyy / yy", "year (2026 / 26)"},
		{"MM / MMM / MMMM", "month (01 / Jan / January)"},
		{"dd / ddd / dddd", "day of month (05) or weekday (Mon / Monday)"},
		{"HH / hh", "hour, 24 or 12 hour clock"},
		{"mm", "minute"},
		{"ss", "second"},
		{"f...fffffff", "fraction of a second"},
		{"tt", "AM / PM"},
		{"zz / zzz", "UTC offset (+09 / +0900, no colon so the name stays valid on Windows)"},
		{"'text'", "quoted literal text"},
		{"d, y, M", "single letters are the day, year and month numbers, not .NET standard formats; {D} is left as text"},
	}
}
