package payconfig

import "time"

type UpdateConfigRequest struct {
	ConfigType    string  `json:"config_type" binding:"required"`
	ConfigKey     string  `json:"config_key" binding:"required"`
	ConfigValue   string  `json:"config_value" binding:"required"`
	Description   *string `json:"description"`
	EffectiveDate string  `json:"effective_date" binding:"required"`
}

type ConfigEntryResponse struct {
	ID            string  `json:"id"`
	ConfigType    string  `json:"config_type"`
	ConfigKey     string  `json:"config_key"`
	ConfigValue   string  `json:"config_value"`
	Description   *string `json:"description,omitempty"`
	EffectiveDate string  `json:"effective_date"`
	ExpiryDate    *string `json:"expiry_date,omitempty"`
	IsActive      bool    `json:"is_active"`
}

func mapToResponse(entry PayrollConfiguration) ConfigEntryResponse {
	resp := ConfigEntryResponse{
		ID:            entry.ID.String(),
		ConfigType:    entry.ConfigType,
		ConfigKey:     entry.ConfigKey,
		ConfigValue:   entry.ConfigValue,
		Description:   entry.Description,
		EffectiveDate: entry.EffectiveDate.Format("2006-01-02"),
		IsActive:      entry.IsActive,
	}
	if entry.ExpiryDate != nil {
		v := entry.ExpiryDate.Format("2006-01-02")
		resp.ExpiryDate = &v
	}
	return resp
}

func mapToListResponse(entries []PayrollConfiguration) []ConfigEntryResponse {
	resp := make([]ConfigEntryResponse, len(entries))
	for i, entry := range entries {
		resp[i] = mapToResponse(entry)
	}
	return resp
}

func parseDate(v string) (time.Time, error) {
	return time.Parse("2006-01-02", v)
}
