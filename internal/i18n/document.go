package i18n

// Document receives the direction and language attributes of the host
// document whenever the language is resolved.
type Document interface {
	SetDir(dir string)
	SetLang(lang string)
}

// Attributes is a Document that records the attributes for a renderer to
// emit, e.g. as <html dir lang>.
type Attributes struct {
	Dir  string
	Lang string
}

func (a *Attributes) SetDir(dir string)   { a.Dir = dir }
func (a *Attributes) SetLang(lang string) { a.Lang = lang }
