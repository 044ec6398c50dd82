package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	cat := DefaultCatalog()
	require.Same(t, cat, DefaultCatalog())

	for _, lang := range Supported() {
		assert.Empty(t, cat.MissingKeys(lang), "language %s", lang)
	}
	assert.Equal(t, cat.Keys(EN), cat.Keys(AR), "both languages define the same keys")

	value, ok := cat.Lookup(EN, "riskCheck.highRisk")
	require.True(t, ok)
	assert.Equal(t, "High Risk", value)

	value, ok = cat.Lookup(AR, "riskCheck.highRisk")
	require.True(t, ok)
	assert.NotEqual(t, "High Risk", value)
}

func TestCatalogCoversWizardKeys(t *testing.T) {
	cat := DefaultCatalog()
	keys := []string{
		"riskCheck.step1", "riskCheck.step2", "riskCheck.step3", "riskCheck.step4", "riskCheck.step5",
		"riskCheck.lowRisk", "riskCheck.moderateRisk", "riskCheck.highRisk",
		"riskCheck.rec1", "riskCheck.rec2", "riskCheck.rec3", "riskCheck.rec4", "riskCheck.rec5",
		"riskCheck.disclaimer", "riskCheck.notAnswered",
	}
	for _, lang := range Supported() {
		for _, key := range keys {
			_, ok := cat.Lookup(lang, key)
			assert.True(t, ok, "%s: %s", lang, key)
		}
	}
}

func TestCatalogMessagesIsCopy(t *testing.T) {
	cat := DefaultCatalog()
	m := cat.Messages(EN)
	m["app.name"] = "changed"

	value, _ := cat.Lookup(EN, "app.name")
	assert.Equal(t, "Vita", value)
}

func TestLoadCatalog(t *testing.T) {
	valid := func() fstest.MapFS {
		return fstest.MapFS{
			"locales/en.yaml": {Data: []byte("language: en\nmessages:\n  a: A\n  b: B\n")},
			"locales/ar.yaml": {Data: []byte("language: ar\nmessages:\n  a: أ\n")},
		}
	}

	t.Run("valid", func(t *testing.T) {
		cat, err := LoadCatalog(valid())
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, cat.Keys(EN))
		assert.Equal(t, []string{"b"}, cat.MissingKeys(AR))
	})

	tests := []struct {
		name   string
		mutate func(fstest.MapFS)
		errMsg string
	}{
		{
			name:   "no files",
			mutate: func(fs fstest.MapFS) { delete(fs, "locales/en.yaml"); delete(fs, "locales/ar.yaml") },
			errMsg: "no locale files",
		},
		{
			name:   "missing language",
			mutate: func(fs fstest.MapFS) { delete(fs, "locales/ar.yaml") },
			errMsg: `locale "ar" is not defined`,
		},
		{
			name: "unsupported language",
			mutate: func(fs fstest.MapFS) {
				fs["locales/fr.yaml"] = &fstest.MapFile{Data: []byte("language: fr\nmessages:\n  a: A\n")}
			},
			errMsg: "unsupported language",
		},
		{
			name: "file name mismatch",
			mutate: func(fs fstest.MapFS) {
				fs["locales/ar.yaml"] = &fstest.MapFile{Data: []byte("language: en\nmessages:\n  a: A\n")}
			},
			errMsg: "must match file name",
		},
		{
			name: "empty message",
			mutate: func(fs fstest.MapFS) {
				fs["locales/ar.yaml"] = &fstest.MapFile{Data: []byte("language: ar\nmessages:\n  a: \"\"\n")}
			},
			errMsg: "is empty",
		},
		{
			name: "no messages",
			mutate: func(fs fstest.MapFS) {
				fs["locales/ar.yaml"] = &fstest.MapFile{Data: []byte("language: ar\n")}
			},
			errMsg: "messages are required",
		},
		{
			name: "broken yaml",
			mutate: func(fs fstest.MapFS) {
				fs["locales/ar.yaml"] = &fstest.MapFile{Data: []byte("language: [ar\n")}
			},
			errMsg: "parse locales/ar.yaml",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := valid()
			tt.mutate(fsys)
			_, err := LoadCatalog(fsys)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
