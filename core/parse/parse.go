package parse

import (
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonrepair"
)

// ParseArgumentsAs decodes raw tool-call argument text into T. Well-formed
// JSON decodes directly; on failure the text is run through jsonrepair once
// and decoding is retried, so common model mistakes (single quotes, unquoted
// keys, trailing commas) still produce a usable value.
//
// Example:
//
//	type WeatherArgs struct {
//	    Location string `json:"location"`
//	}
//	args, err := parse.ParseArgumentsAs[WeatherArgs](call.Function.Arguments)
func ParseArgumentsAs[T any](raw string) (T, error) {
	var result T

	if raw == "" {
		raw = "{}"
	}

	err := json.Unmarshal([]byte(raw), &result)
	if err == nil {
		return result, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(raw)
	if repairErr != nil {
		return result, fmt.Errorf("arguments are not decodable as %T: %w (repair also failed: %v)", result, err, repairErr)
	}
	if err = json.Unmarshal([]byte(repaired), &result); err != nil {
		return result, fmt.Errorf("repaired arguments still not decodable as %T: %w (original: %s, repaired: %s)", result, err, raw, repaired)
	}
	return result, nil
}

// ParseValueAs re-types an argument value that was already parsed into
// generic JSON types (map[string]any and friends), as carried by tool-call
// events. It round-trips through encoding/json so struct tags apply.
func ParseValueAs[T any](value any) (T, error) {
	var result T

	encoded, err := json.Marshal(value)
	if err != nil {
		return result, fmt.Errorf("argument value is not serializable: %w", err)
	}
	if err = json.Unmarshal(encoded, &result); err != nil {
		return result, fmt.Errorf("argument value is not decodable as %T: %w", result, err)
	}
	return result, nil
}
