package exercise

import "fmt"

// TestDialect is the unit test harness output format a language uses.
type TestDialect int

const (
	NoTests TestDialect = iota
	JUnit
	Doctest
)

// Language describes how a configured language is submitted to Jobe.
type Language struct {
	ID     string
	JobeID string

	// SourceFilename is empty when the name is derived from the source.
	SourceFilename string
	MemoryLimit    int
	Dialect        TestDialect
}

var languages = map[string]Language{
	"python":  {ID: "python", JobeID: "python3", SourceFilename: "test.py"},
	"python2": {ID: "python2", JobeID: "python2", SourceFilename: "test.py"},
	"python3": {ID: "python3", JobeID: "python3", SourceFilename: "test.py"},
	"c":       {ID: "c", JobeID: "c", SourceFilename: "test.c", Dialect: Doctest},
	"cpp":     {ID: "cpp", JobeID: "cpp", SourceFilename: "test.cpp", Dialect: Doctest},
	"java":    {ID: "java", JobeID: "java", Dialect: JUnit},
	"octave":  {ID: "octave", JobeID: "octave", SourceFilename: "test.m", MemoryLimit: 200},
	"php":     {ID: "php", JobeID: "php", SourceFilename: "test.php"},
	"nodejs":  {ID: "nodejs", JobeID: "nodejs", SourceFilename: "test.js"},
	"pascal":  {ID: "pascal", JobeID: "pascal", SourceFilename: "test.pas"},
}

// LookupLanguage returns the table entry for a configured language id.
func LookupLanguage(id string) (Language, error) {
	l, ok := languages[id]
	if !ok {
		return Language{}, fmt.Errorf("unsupported language %q", id)
	}
	return l, nil
}

// LanguageIDs lists the configurable language ids.
func LanguageIDs() []string {
	ids := make([]string, 0, len(languages))
	for id := range languages {
		ids = append(ids, id)
	}
	return ids
}
