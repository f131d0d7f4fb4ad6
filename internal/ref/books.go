package ref

import "strings"

// Book describes one book of the Protestant canon.
type Book struct {
	Num      int    // 1-based book number (Genesis = 1)
	Code     string // USFM/Paratext book code (e.g., "GEN", "JHN")
	Name     string // English display name
	Chapters int    // Chapter count
}

// Books lists the 66-book Protestant canon in canonical order.
var Books = []Book{
	{1, "GEN", "Genesis", 50},
	{2, "EXO", "Exodus", 40},
	{3, "LEV", "Leviticus", 27},
	{4, "NUM", "Numbers", 36},
	{5, "DEU", "Deuteronomy", 34},
	{6, "JOS", "Joshua", 24},
	{7, "JDG", "Judges", 21},
	{8, "RUT", "Ruth", 4},
	{9, "1SA", "1 Samuel", 31},
	{10, "2SA", "2 Samuel", 24},
	{11, "1KI", "1 Kings", 22},
	{12, "2KI", "2 Kings", 25},
	{13, "1CH", "1 Chronicles", 29},
	{14, "2CH", "2 Chronicles", 36},
	{15, "EZR", "Ezra", 10},
	{16, "NEH", "Nehemiah", 13},
	{17, "EST", "Esther", 10},
	{18, "JOB", "Job", 42},
	{19, "PSA", "Psalms", 150},
	{20, "PRO", "Proverbs", 31},
	{21, "ECC", "Ecclesiastes", 12},
	{22, "SNG", "Song of Solomon", 8},
	{23, "ISA", "Isaiah", 66},
	{24, "JER", "Jeremiah", 52},
	{25, "LAM", "Lamentations", 5},
	{26, "EZK", "Ezekiel", 48},
	{27, "DAN", "Daniel", 12},
	{28, "HOS", "Hosea", 14},
	{29, "JOL", "Joel", 3},
	{30, "AMO", "Amos", 9},
	{31, "OBA", "Obadiah", 1},
	{32, "JON", "Jonah", 4},
	{33, "MIC", "Micah", 7},
	{34, "NAM", "Nahum", 3},
	{35, "HAB", "Habakkuk", 3},
	{36, "ZEP", "Zephaniah", 3},
	{37, "HAG", "Haggai", 2},
	{38, "ZEC", "Zechariah", 14},
	{39, "MAL", "Malachi", 4},
	{40, "MAT", "Matthew", 28},
	{41, "MRK", "Mark", 16},
	{42, "LUK", "Luke", 24},
	{43, "JHN", "John", 21},
	{44, "ACT", "Acts", 28},
	{45, "ROM", "Romans", 16},
	{46, "1CO", "1 Corinthians", 16},
	{47, "2CO", "2 Corinthians", 13},
	{48, "GAL", "Galatians", 6},
	{49, "EPH", "Ephesians", 6},
	{50, "PHP", "Philippians", 4},
	{51, "COL", "Colossians", 4},
	{52, "1TH", "1 Thessalonians", 5},
	{53, "2TH", "2 Thessalonians", 3},
	{54, "1TI", "1 Timothy", 6},
	{55, "2TI", "2 Timothy", 4},
	{56, "TIT", "Titus", 3},
	{57, "PHM", "Philemon", 1},
	{58, "HEB", "Hebrews", 13},
	{59, "JAS", "James", 5},
	{60, "1PE", "1 Peter", 5},
	{61, "2PE", "2 Peter", 3},
	{62, "1JN", "1 John", 5},
	{63, "2JN", "2 John", 1},
	{64, "3JN", "3 John", 1},
	{65, "JUD", "Jude", 1},
	{66, "REV", "Revelation", 22},
}

// booksByCode indexes Books by their USFM code.
var booksByCode = func() map[string]*Book {
	m := make(map[string]*Book, len(Books))
	for i := range Books {
		m[Books[i].Code] = &Books[i]
	}
	return m
}()

// BookByCode returns the canon entry for a USFM book code.
func BookByCode(code string) (*Book, bool) {
	b, ok := booksByCode[strings.ToUpper(code)]
	return b, ok
}

// BookByNum returns the canon entry for a 1-based book number.
func BookByNum(num int) (*Book, bool) {
	if num < 1 || num > len(Books) {
		return nil, false
	}
	return &Books[num-1], true
}

// bookAbbreviations maps lowercase book names and common abbreviations
// to USFM codes.
var bookAbbreviations = map[string]string{
	// Genesis
	"gen": "GEN", "genesis": "GEN",
	// Exodus
	"exod": "EXO", "exo": "EXO", "exodus": "EXO", "ex": "EXO",
	// Leviticus
	"lev": "LEV", "leviticus": "LEV",
	// Numbers
	"num": "NUM", "numbers": "NUM",
	// Deuteronomy
	"deut": "DEU", "deu": "DEU", "deuteronomy": "DEU",
	// Joshua
	"josh": "JOS", "jos": "JOS", "joshua": "JOS",
	// Judges
	"judg": "JDG", "jdg": "JDG", "judges": "JDG",
	// Ruth
	"ruth": "RUT", "rut": "RUT",
	// 1 Samuel
	"1sam": "1SA", "1 sam": "1SA", "1 samuel": "1SA", "1samuel": "1SA", "1sa": "1SA",
	// 2 Samuel
	"2sam": "2SA", "2 sam": "2SA", "2 samuel": "2SA", "2samuel": "2SA", "2sa": "2SA",
	// 1 Kings
	"1kgs": "1KI", "1 kgs": "1KI", "1 kings": "1KI", "1kings": "1KI", "1ki": "1KI",
	// 2 Kings
	"2kgs": "2KI", "2 kgs": "2KI", "2 kings": "2KI", "2kings": "2KI", "2ki": "2KI",
	// 1 Chronicles
	"1chr": "1CH", "1 chr": "1CH", "1 chronicles": "1CH", "1chronicles": "1CH", "1ch": "1CH",
	// 2 Chronicles
	"2chr": "2CH", "2 chr": "2CH", "2 chronicles": "2CH", "2chronicles": "2CH", "2ch": "2CH",
	// Ezra
	"ezra": "EZR", "ezr": "EZR",
	// Nehemiah
	"neh": "NEH", "nehemiah": "NEH",
	// Esther
	"esth": "EST", "est": "EST", "esther": "EST",
	// Job
	"job": "JOB",
	// Psalms
	"ps": "PSA", "psa": "PSA", "psalm": "PSA", "psalms": "PSA",
	// Proverbs
	"prov": "PRO", "pro": "PRO", "proverbs": "PRO",
	// Ecclesiastes
	"eccl": "ECC", "ecc": "ECC", "ecclesiastes": "ECC",
	// Song of Solomon
	"song": "SNG", "sng": "SNG", "song of solomon": "SNG",
	"song of songs": "SNG", "sos": "SNG", "canticles": "SNG",
	// Isaiah
	"isa": "ISA", "isaiah": "ISA",
	// Jeremiah
	"jer": "JER", "jeremiah": "JER",
	// Lamentations
	"lam": "LAM", "lamentations": "LAM",
	// Ezekiel
	"ezek": "EZK", "eze": "EZK", "ezk": "EZK", "ezekiel": "EZK",
	// Daniel
	"dan": "DAN", "daniel": "DAN",
	// Hosea
	"hos": "HOS", "hosea": "HOS",
	// Joel
	"joel": "JOL", "jol": "JOL",
	// Amos
	"amos": "AMO", "amo": "AMO",
	// Obadiah
	"obad": "OBA", "oba": "OBA", "obadiah": "OBA",
	// Jonah
	"jonah": "JON", "jon": "JON",
	// Micah
	"mic": "MIC", "micah": "MIC",
	// Nahum
	"nah": "NAM", "nam": "NAM", "nahum": "NAM",
	// Habakkuk
	"hab": "HAB", "habakkuk": "HAB",
	// Zephaniah
	"zeph": "ZEP", "zep": "ZEP", "zephaniah": "ZEP",
	// Haggai
	"hag": "HAG", "haggai": "HAG",
	// Zechariah
	"zech": "ZEC", "zec": "ZEC", "zechariah": "ZEC",
	// Malachi
	"mal": "MAL", "malachi": "MAL",
	// Matthew
	"matt": "MAT", "mat": "MAT", "matthew": "MAT", "mt": "MAT",
	// Mark
	"mark": "MRK", "mrk": "MRK", "mk": "MRK",
	// Luke
	"luke": "LUK", "luk": "LUK", "lk": "LUK",
	// John
	"john": "JHN", "joh": "JHN", "jhn": "JHN", "jn": "JHN",
	// Acts
	"acts": "ACT", "act": "ACT",
	// Romans
	"rom": "ROM", "romans": "ROM",
	// 1 Corinthians
	"1cor": "1CO", "1 cor": "1CO", "1 corinthians": "1CO", "1corinthians": "1CO", "1co": "1CO",
	// 2 Corinthians
	"2cor": "2CO", "2 cor": "2CO", "2 corinthians": "2CO", "2corinthians": "2CO", "2co": "2CO",
	// Galatians
	"gal": "GAL", "galatians": "GAL",
	// Ephesians
	"eph": "EPH", "ephesians": "EPH",
	// Philippians
	"phil": "PHP", "php": "PHP", "philippians": "PHP",
	// Colossians
	"col": "COL", "colossians": "COL",
	// 1 Thessalonians
	"1thess": "1TH", "1 thess": "1TH", "1 thessalonians": "1TH", "1thessalonians": "1TH", "1th": "1TH",
	// 2 Thessalonians
	"2thess": "2TH", "2 thess": "2TH", "2 thessalonians": "2TH", "2thessalonians": "2TH", "2th": "2TH",
	// 1 Timothy
	"1tim": "1TI", "1 tim": "1TI", "1 timothy": "1TI", "1timothy": "1TI", "1ti": "1TI",
	// 2 Timothy
	"2tim": "2TI", "2 tim": "2TI", "2 timothy": "2TI", "2timothy": "2TI", "2ti": "2TI",
	// Titus
	"titus": "TIT", "tit": "TIT",
	// Philemon
	"phlm": "PHM", "philemon": "PHM", "phm": "PHM",
	// Hebrews
	"heb": "HEB", "hebrews": "HEB",
	// James
	"jas": "JAS", "james": "JAS",
	// 1 Peter
	"1pet": "1PE", "1 pet": "1PE", "1 peter": "1PE", "1peter": "1PE", "1pe": "1PE",
	// 2 Peter
	"2pet": "2PE", "2 pet": "2PE", "2 peter": "2PE", "2peter": "2PE", "2pe": "2PE",
	// 1 John
	"1john": "1JN", "1 john": "1JN", "1jn": "1JN", "1 jn": "1JN",
	// 2 John
	"2john": "2JN", "2 john": "2JN", "2jn": "2JN", "2 jn": "2JN",
	// 3 John
	"3john": "3JN", "3 john": "3JN", "3jn": "3JN", "3 jn": "3JN",
	// Jude
	"jude": "JUD", "jud": "JUD",
	// Revelation
	"rev": "REV", "revelation": "REV",
}

// NormalizeBook converts a book name or common abbreviation to its USFM code.
// Trailing periods and surrounding whitespace are ignored.
func NormalizeBook(name string) (string, bool) {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".")
	normalized := strings.ToLower(strings.Join(strings.Fields(name), " "))

	if code, ok := bookAbbreviations[normalized]; ok {
		return code, true
	}

	// A bare book code is also accepted ("JHN", "jhn")
	if _, ok := booksByCode[strings.ToUpper(normalized)]; ok {
		return strings.ToUpper(normalized), true
	}

	return "", false
}
