package pronoundb

import (
	"encoding/json"
)

func UnmarshalCode(data []byte) (string, error) {

	var lookup struct {
		Pronouns string `json:"pronouns"`
	}
	if err := json.Unmarshal(data, &lookup); err != nil {
		return "", err
	}
	return lookup.Pronouns, nil
}
