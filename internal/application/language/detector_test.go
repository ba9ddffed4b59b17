package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"short text defaults", "hola", "en"},
		{"english", "The quick brown fox jumps over the lazy dog", "en"},
		{"hindi", "यह एक परीक्षण वाक्य है जो हिंदी में लिखा गया", "hi"},
		{"marathi", "हे मराठी भाषेतील वाक्य आहे आणि ते छान आहे", "mr"},
		{"japanese", "これは日本語の文章です。東京に行きます。", "ja"},
		{"chinese", "这是一个用中文写的测试句子。", "zh"},
		{"arabic", "هذه جملة اختبار مكتوبة باللغة العربية", "ar"},
		{"russian", "Это тестовое предложение на русском языке", "ru"},
		{"spanish", "El gobierno dice que la economía está creciendo", "es"},
		{"french", "Le gouvernement est prêt avec une réforme", "fr"},
		{"german", "Die Regierung sagt, dass es nicht so ist und bleibt", "de"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Detect(tc.text).Code)
		})
	}
}

func TestDetectConfidence(t *testing.T) {
	assert.Equal(t, 1.0, Detect("hi").Confidence)
	d := Detect("The quick brown fox jumps over the lazy dog")
	assert.Equal(t, 0.8, d.Confidence)
	assert.Equal(t, "English", d.Name)
	assert.True(t, d.Supported)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "en", Normalize(""))
	assert.Equal(t, "en", Normalize("en-US"))
	assert.Equal(t, "en", Normalize("English"))
	assert.Equal(t, "zh", Normalize("zh_Hant"))
	assert.Equal(t, "hi", Normalize(" HI "))
	assert.Equal(t, "es", Normalize("español"))
}

func TestLookup(t *testing.T) {
	assert.True(t, Lookup("mr").HasFullAnalysis)
	assert.False(t, Lookup("ta").HasFullAnalysis)
	unknown := Lookup("xx-YY")
	assert.False(t, unknown.Supported)
	assert.Len(t, Supported(), 15)
}
