// internal/domain/homework/record.go
package homework

import (
	"fmt"
)

// Status is the review state reported by the Practicum API for a submission.
type Status string

const (
	StatusApproved  Status = "approved"
	StatusReviewing Status = "reviewing"
	StatusRejected  Status = "rejected"
)

// verdicts maps every known status to the text shown in the chat.
var verdicts = map[Status]string{
	StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	StatusReviewing: "Работа взята на проверку ревьюером.",
	StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

const statusChangeTemplate = "Изменился статус проверки работы \"%s\". %s"

// Verdict returns the human-readable text for a known status.
func (s Status) Verdict() (string, bool) {
	v, ok := verdicts[s]
	return v, ok
}

// Record is one submission's review state.
type Record struct {
	Name   string
	Status Status
}

// DecodeRecord reads a record out of a decoded JSON value.
// The API names the field homework_name; plain name is accepted as well.
func DecodeRecord(v any) (Record, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Record{}, fmt.Errorf("%w: record is %s, not an object", ErrMissingField, jsonType(v))
	}

	name, nameOK := obj["homework_name"].(string)
	if !nameOK {
		name, nameOK = obj["name"].(string)
	}
	rawStatus := obj["status"] // absent and null are both missing
	if !nameOK || name == "" || rawStatus == nil {
		return Record{}, fmt.Errorf("%w: name=%s status=%s",
			ErrMissingField, describeField(obj, "homework_name", "name"), describeField(obj, "status"))
	}
	status, ok := rawStatus.(string)
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrUnknownStatus, jsonType(rawStatus))
	}
	return Record{Name: name, Status: Status(status)}, nil
}

// ParseStatus builds the status-change message for a single homework record.
func ParseStatus(v any) (string, error) {
	rec, err := DecodeRecord(v)
	if err != nil {
		return "", err
	}
	verdict, ok := rec.Status.Verdict()
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, string(rec.Status))
	}
	return fmt.Sprintf(statusChangeTemplate, rec.Name, verdict), nil
}

// describeField renders the first present key for diagnostics.
func describeField(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			if s, isString := v.(string); isString {
				return fmt.Sprintf("%q", s)
			}
			return jsonType(v)
		}
	}
	return "missing"
}
