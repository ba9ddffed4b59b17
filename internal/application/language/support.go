package language

// Info describes how far the pipeline supports one language.
type Info struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	Supported       bool   `json:"isSupported"`
	HasTranslation  bool   `json:"hasTranslation"`
	HasFullAnalysis bool   `json:"hasFullAnalysis"`
}

var supported = []Info{
	{"en", "English", true, true, true},
	{"hi", "Hindi", true, true, true},
	{"mr", "Marathi", true, true, true},
	{"bn", "Bengali", true, true, false},
	{"te", "Telugu", true, true, false},
	{"ta", "Tamil", true, true, false},
	{"gu", "Gujarati", true, true, false},
	{"kn", "Kannada", true, true, false},
	{"ml", "Malayalam", true, true, false},
	{"pa", "Punjabi", true, true, false},
	{"ur", "Urdu", true, true, false},
	{"es", "Spanish", true, true, true},
	{"fr", "French", true, true, true},
	{"de", "German", true, true, true},
	{"zh", "Chinese", true, true, false},
}

var byCode = func() map[string]Info {
	m := make(map[string]Info, len(supported))
	for _, i := range supported {
		m[i.Code] = i
	}
	return m
}()

// Supported lists the table in declaration order.
func Supported() []Info {
	return append([]Info(nil), supported...)
}

// Lookup normalises code and returns its entry; unknown codes come back unsupported.
func Lookup(code string) Info {
	c := Normalize(code)
	if info, ok := byCode[c]; ok {
		return info
	}
	return Info{Code: c, Name: c}
}
