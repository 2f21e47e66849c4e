package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

func decodeYAML(source string, data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return yamlParseError(source, err)
	}
	return nil
}

// yamlParseError recovers the line number yaml.v3 embeds in its messages
// ("yaml: line 3: ..." or "line 3: field x not found in type ...").
func yamlParseError(source string, err error) *ParseError {
	perr := &ParseError{Path: source, Message: err.Error(), Err: err}

	msg := err.Error()
	var terr *yaml.TypeError
	if errors.As(err, &terr) && len(terr.Errors) > 0 {
		msg = terr.Errors[0]
	}
	msg = strings.TrimPrefix(msg, "yaml: ")

	var line int
	if _, scanErr := fmt.Sscanf(msg, "line %d:", &line); scanErr == nil {
		perr.Line = line
		if i := strings.Index(msg, ":"); i >= 0 {
			msg = strings.TrimSpace(msg[i+1:])
		}
	}
	perr.Message = msg
	return perr
}
