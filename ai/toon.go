package ai

import (
	"regexp"
	"strconv"
	"strings"

	"labstock/domain/spec"
)

// fenceRe matches a fenced code block, with or without a toon/yaml tag.
// Local models often wrap their output even when told not to.
var fenceRe = regexp.MustCompile("```(?:toon|yaml)?\\s*((?s:.*?))```")

// numberRe matches a bare decimal number (the only values coerced)
var numberRe = regexp.MustCompile(`^\d+(\.\d+)?$`)

// DecodeSpecs parses the TOON structured-text dialect into a
// Specification. It is pure and total: any malformed, empty or
// off-format input yields nil, never an error. Unrecognized sections
// and fields are dropped silently.
func DecodeSpecs(text string) (result *spec.Specification) {
	// The parser never touches I/O; a recover keeps engine garbage
	// from escaping as a panic.
	defer func() {
		if r := recover(); r != nil {
			result = nil
		}
	}()

	sections := parseSections(text)
	if len(sections) == 0 {
		return nil
	}

	s := &spec.Specification{}

	if cpu, ok := sections["cpu"]; ok {
		s.CPU = &spec.CPU{
			Model:       asString(cpu["model"]),
			Cores:       asInt(cpu["cores"]),
			Threads:     asInt(cpu["threads"]),
			Socket:      asString(cpu["socket"]),
			TDPWatts:    asFloat(cpu["tdp_watts"]),
			VideoCodecs: asString(cpu["video_codecs"]),
		}
	}

	if ram, ok := sections["ram"]; ok {
		s.RAM = &spec.RAM{
			Current:      asString(ram["current"]),
			MaxSupported: asString(ram["max_supported"]),
			Type:         spec.ParseRAMType(asString(ram["type"])),
			SlotsTotal:   asInt(ram["slots_total"]),
			SlotsUsed:    asInt(ram["slots_used"]),
		}
	}

	if mb, ok := sections["motherboard"]; ok {
		s.Motherboard = &spec.Motherboard{
			Model:      asString(mb["model"]),
			Chipset:    asString(mb["chipset"]),
			FormFactor: asString(mb["form_factor"]),
			SATAPorts:  asInt(mb["sata_ports"]),
			NVMeSlots:  asInt(mb["nvme_slots"]),
		}
	}

	if s.IsEmpty() {
		return nil
	}
	return s
}

// parseSections runs the line-level pass of the dialect: an unindented
// line ending in ":" opens a section (last write wins on duplicate
// names), an indented "key: value" line assigns a field within the
// open section. Values matching numberRe are coerced to float64.
func parseSections(text string) map[string]map[string]interface{} {
	content := strings.TrimSpace(text)
	if m := fenceRe.FindStringSubmatch(content); m != nil {
		content = strings.TrimSpace(m[1])
	}
	if content == "" {
		return nil
	}

	sections := make(map[string]map[string]interface{})
	var current map[string]interface{}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimRight(line, " \t")
		if trimmed == "" {
			continue
		}

		indented := strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
		if !indented && strings.HasSuffix(trimmed, ":") {
			name := strings.ToLower(strings.TrimSuffix(trimmed, ":"))
			current = make(map[string]interface{})
			sections[name] = current
			continue
		}

		if indented && current != nil {
			key, value, ok := strings.Cut(strings.TrimSpace(trimmed), ":")
			if !ok || key == "" {
				continue
			}
			key = strings.Join(strings.Fields(strings.ToLower(key)), "_")
			value = strings.TrimSpace(value)
			if numberRe.MatchString(value) {
				if f, err := strconv.ParseFloat(value, 64); err == nil {
					current[key] = f
					continue
				}
			}
			current[key] = value
		}
	}

	// Sections with no fields carry no signal
	for name, fields := range sections {
		if len(fields) == 0 {
			delete(sections, name)
		}
	}
	return sections
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func asFloat(v interface{}) float64 {
	if f, ok := v.(float64); ok {
		return f
	}
	return 0
}

func asInt(v interface{}) int {
	return int(asFloat(v))
}
