package spec

import (
	"encoding/json"
	"strings"
)

// RAMType enumerates the memory technologies the inventory understands
type RAMType string

const (
	RAMDDR3    RAMType = "DDR3"
	RAMDDR4    RAMType = "DDR4"
	RAMDDR5    RAMType = "DDR5"
	RAMUnified RAMType = "Unified Memory"
	RAMLPDDR4  RAMType = "LPDDR4"
	RAMLPDDR5  RAMType = "LPDDR5"
)

// DefaultRAMType is assumed when extraction yields no recognizable type
const DefaultRAMType = RAMDDR4

// ramTypes indexes the enum by upper-cased spelling for case-insensitive matching
var ramTypes = map[string]RAMType{
	"DDR3":           RAMDDR3,
	"DDR4":           RAMDDR4,
	"DDR5":           RAMDDR5,
	"UNIFIED MEMORY": RAMUnified,
	"LPDDR4":         RAMLPDDR4,
	"LPDDR5":         RAMLPDDR5,
}

// ParseRAMType matches s case-insensitively against the RAM type enum.
// Unknown or empty input falls back to DefaultRAMType.
func ParseRAMType(s string) RAMType {
	if t, ok := ramTypes[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return t
	}
	return DefaultRAMType
}

// CPU describes a processor
type CPU struct {
	Model       string  `json:"model"`
	Cores       int     `json:"cores,omitempty"`
	Threads     int     `json:"threads,omitempty"`
	Socket      string  `json:"socket,omitempty"`
	TDPWatts    float64 `json:"tdp_watts,omitempty"`
	VideoCodecs string  `json:"video_codecs,omitempty"`
}

// RAM describes installed and supported memory
type RAM struct {
	Current      string  `json:"current"`
	MaxSupported string  `json:"max_supported"`
	Type         RAMType `json:"type"`
	SlotsTotal   int     `json:"slots_total,omitempty"`
	SlotsUsed    int     `json:"slots_used,omitempty"`
}

// Motherboard describes the main board
type Motherboard struct {
	Model      string `json:"model"`
	Chipset    string `json:"chipset,omitempty"`
	FormFactor string `json:"form_factor,omitempty"`
	SATAPorts  int    `json:"sata_ports,omitempty"`
	NVMeSlots  int    `json:"nvme_slots,omitempty"`
}

// Specification is the canonical resolved result of a hardware lookup
type Specification struct {
	CPU         *CPU         `json:"cpu,omitempty"`
	RAM         *RAM         `json:"ram,omitempty"`
	Motherboard *Motherboard `json:"motherboard,omitempty"`
}

// IsEmpty reports whether no top-level field is populated. An empty
// Specification must never count as a successful resolution.
func (s *Specification) IsEmpty() bool {
	return s == nil || (s.CPU == nil && s.RAM == nil && s.Motherboard == nil)
}

// Normalize canonicalizes a free-text model name for use as a lookup
// key: lower-cased and trimmed. Applied identically on read and write
// so "Intel NUC" and "intel nuc " share one entry.
func Normalize(model string) string {
	return strings.ToLower(strings.TrimSpace(model))
}

// MarshalText serializes a Specification for storage in a text column
func MarshalText(s *Specification) (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// UnmarshalText deserializes a stored Specification
func UnmarshalText(raw string) (*Specification, error) {
	var s Specification
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, err
	}
	return &s, nil
}
