package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/apperror"
)

// maxBodyBytes caps form bodies. No form on the site comes close.
const maxBodyBytes = 64 << 10

// decodeForm reads a JSON object of form values. Forms post whatever the
// browser has (strings, numbers, booleans, a list of technologies), so every
// value is flattened to the string the signup schemas validate. The
// reserved "source" key is returned separately.
func decodeForm(w http.ResponseWriter, r *http.Request) (values map[string]string, source string, err error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, "", apperror.ValidationFailed("", "Request body is too large.")
		}
		return nil, "", apperror.ValidationFailed("", "Invalid JSON body.")
	}

	values = make(map[string]string, len(raw))
	for k, v := range raw {
		s, err := formValue(v)
		if err != nil {
			return nil, "", apperror.ValidationFailed(k, fmt.Sprintf("Unsupported value for %s.", k))
		}
		values[k] = s
	}
	source = values["source"]
	delete(values, "source")
	return values, source, nil
}

func formValue(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			s, err := formValue(item)
			if err != nil {
				return "", err
			}
			if _, nested := item.([]any); nested {
				return "", errors.New("nested list")
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ", "), nil
	default:
		return "", fmt.Errorf("unsupported type %T", v)
	}
}
