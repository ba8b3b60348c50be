package api

import (
	"encoding/json"
	"fmt"
)

// RunRequest is the body of a POST to the Jobe runs resource.
type RunRequest struct {
	RunSpec RunSpec `json:"run_spec"`
}

type RunSpec struct {
	LanguageID     string     `json:"language_id"`
	SourceCode     string     `json:"sourcecode"`
	SourceFilename string     `json:"sourcefilename"`
	Parameters     Parameters `json:"parameters"`

	// Input is fed to the program as stdin.
	Input    *string   `json:"input,omitempty"`
	FileList []FileRef `json:"file_list,omitempty"`
}

// Clone returns a copy that shares no slices with the receiver.
func (s RunSpec) Clone() RunSpec {
	c := s
	c.Parameters = s.Parameters.clone()
	if s.Input != nil {
		in := *s.Input
		c.Input = &in
	}
	if s.FileList != nil {
		c.FileList = append([]FileRef(nil), s.FileList...)
	}
	return c
}

type Parameters struct {
	CompileArgs     []string `json:"compileargs,omitempty"`
	LinkArgs        []string `json:"linkargs,omitempty"`
	RunArgs         []string `json:"runargs,omitempty"`
	InterpreterArgs []string `json:"interpreterargs,omitempty"`

	// CpuTime is in seconds.
	CpuTime     int `json:"cputime,omitempty"`
	MemoryLimit int `json:"memorylimit,omitempty"`
}

func (p Parameters) clone() Parameters {
	c := p
	c.CompileArgs = append([]string(nil), p.CompileArgs...)
	c.LinkArgs = append([]string(nil), p.LinkArgs...)
	c.RunArgs = append([]string(nil), p.RunArgs...)
	c.InterpreterArgs = append([]string(nil), p.InterpreterArgs...)
	return c
}

// FileRef pairs a server file id with the name the program sees.
// On the wire it is a two element array.
type FileRef struct {
	ID   string
	Name string
}

func (f FileRef) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{f.ID, f.Name})
}

func (f *FileRef) UnmarshalJSON(b []byte) error {
	var pair []string
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("file_list entry must have 2 elements, got %d", len(pair))
	}
	f.ID, f.Name = pair[0], pair[1]
	return nil
}

// PutFileRequest is the body of a PUT to the Jobe files resource.
type PutFileRequest struct {
	FileContents string `json:"file_contents"`
}
