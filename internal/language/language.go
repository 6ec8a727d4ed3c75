package language

import "strings"

type record struct {
	code    string
	display string
}

// index maps every recognized spelling of a language to its canonical
// record: the ISO 639-1 code, the ISO 639-2 bibliographic and
// terminological codes, and the English word form.
var index = make(map[string]record)

func register(code, display string, spellings ...string) {
	rec := record{code: code, display: display}
	index[code] = rec
	for _, spelling := range spellings {
		index[spelling] = rec
	}
}

func init() {
	register("en", "English", "eng", "english")
	register("ja", "Japanese", "jpn", "japanese")
	register("zh", "Chinese", "zho", "chi", "chinese")
	register("ko", "Korean", "kor", "korean")
	register("es", "Spanish", "spa", "spanish")
	register("pt", "Portuguese", "por", "portuguese")
	register("fr", "French", "fra", "fre", "french")
	register("de", "German", "deu", "ger", "german")
	register("it", "Italian", "ita", "italian")
	register("ru", "Russian", "rus", "russian")
	register("pl", "Polish", "pol", "polish")
	register("nl", "Dutch", "nld", "dut", "dutch")
	register("sv", "Swedish", "swe", "swedish")
	register("fi", "Finnish", "fin", "finnish")
	register("ar", "Arabic", "ara", "arabic")
}

// ToISO2 normalizes a track's language metadata to an ISO 639-1 code.
// Unrecognized two-letter codes pass through unchanged so rare languages
// still filter consistently; anything else unrecognized yields "".
func ToISO2(code string) string {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if normalized == "" {
		return ""
	}
	if rec, ok := index[normalized]; ok {
		return rec.code
	}
	if len(normalized) == 2 {
		return normalized
	}
	return ""
}

// DisplayName returns the English name of a track language for table
// output. Unrecognized codes are shown uppercased rather than hidden;
// missing metadata reads as "Unknown".
func DisplayName(code string) string {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if normalized == "" {
		return "Unknown"
	}
	if rec, ok := index[normalized]; ok {
		return rec.display
	}
	return strings.ToUpper(normalized)
}
