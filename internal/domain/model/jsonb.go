package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

func jsonbValue(v interface{}) (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal jsonb value: %w", err)
	}
	return data, nil
}

func jsonbScan(src interface{}, dst interface{}) error {
	if src == nil {
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
	return json.Unmarshal(data, dst)
}
