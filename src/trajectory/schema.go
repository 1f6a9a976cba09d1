package trajectory

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// documentSchema only checks the shape the loader relies on; records are checked by the extractor.
const documentSchema = `{
  "type": "object",
  "required": ["history"],
  "properties": {
    "history": {"type": "array"}
  }
}`

// step must be a whole number that float64 carries exactly (|step| <= 2^53).
const recordSchema = `{
  "type": "object",
  "required": ["step", "functional_integrity", "recovery_capacity", "resilience_potential"],
  "properties": {
    "step": {"type": "integer", "minimum": -9007199254740992, "maximum": 9007199254740992},
    "functional_integrity": {"type": "number"},
    "recovery_capacity": {"type": "number"},
    "resilience_potential": {"type": "number"}
  }
}`

var (
	docSchema = mustSchema(documentSchema)
	recSchema = mustSchema(recordSchema)
)

func mustSchema(s string) *gojsonschema.Schema {
	sch, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("trajectory: bad built-in schema: %v", err))
	}
	return sch
}

// validate runs raw JSON through a schema and returns human readable problems (empty when valid).
func validate(sch *gojsonschema.Schema, raw []byte) ([]string, error) {
	res, err := sch.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, err
	}
	if res.Valid() {
		return nil, nil
	}
	problems := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		if e.Type() == "required" {
			if p, ok := e.Details()["property"]; ok {
				problems = append(problems, fmt.Sprintf("missing key %q", p))
				continue
			}
		}
		problems = append(problems, strings.TrimPrefix(e.Field()+": "+e.Description(), "(root): "))
	}
	sort.Strings(problems)
	return problems, nil
}
