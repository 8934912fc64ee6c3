package ai

import (
	"strings"
	"testing"

	"labstock/domain/spec"
)

func TestDecodeSpecsFullExample(t *testing.T) {
	input := `cpu:
  model: Intel Core i5-8500
  cores: 6
  tdp_watts: 65
ram:
  type: DDR4
  max_supported: 64GB
`

	specs := DecodeSpecs(input)
	if specs == nil {
		t.Fatal("expected specs, got nil")
	}

	if specs.CPU == nil {
		t.Fatal("expected cpu section")
	}
	if specs.CPU.Model != "Intel Core i5-8500" {
		t.Errorf("cpu model = %q", specs.CPU.Model)
	}
	if specs.CPU.Cores != 6 {
		t.Errorf("cpu cores = %d, want 6", specs.CPU.Cores)
	}
	if specs.CPU.TDPWatts != 65 {
		t.Errorf("cpu tdp_watts = %v, want 65", specs.CPU.TDPWatts)
	}

	if specs.RAM == nil {
		t.Fatal("expected ram section")
	}
	if specs.RAM.Current != "" {
		t.Errorf("ram current = %q, want empty", specs.RAM.Current)
	}
	if specs.RAM.MaxSupported != "64GB" {
		t.Errorf("ram max_supported = %q", specs.RAM.MaxSupported)
	}
	if specs.RAM.Type != spec.RAMDDR4 {
		t.Errorf("ram type = %q, want DDR4", specs.RAM.Type)
	}

	if specs.Motherboard != nil {
		t.Error("motherboard section should be absent")
	}
}

func TestDecodeSpecsRoundTrip(t *testing.T) {
	// A well-formed rendering of every field the dialect knows about.
	input := `cpu:
  model: AMD Ryzen 7 5700G
  cores: 8
  threads: 16
  socket: AM4
  tdp_watts: 65
  video codecs: H.264, HEVC
ram:
  current: 32GB
  max_supported: 128GB
  type: ddr4
  slots_total: 4
  slots_used: 2
motherboard:
  model: ASUS PRIME B550M-A
  chipset: AMD B550
  form factor: mATX
  sata_ports: 6
  nvme_slots: 2
`

	specs := DecodeSpecs(input)
	if specs == nil {
		t.Fatal("expected specs, got nil")
	}

	cpu := specs.CPU
	if cpu == nil || cpu.Model != "AMD Ryzen 7 5700G" || cpu.Cores != 8 || cpu.Threads != 16 ||
		cpu.Socket != "AM4" || cpu.TDPWatts != 65 || cpu.VideoCodecs != "H.264, HEVC" {
		t.Errorf("cpu mismatch: %+v", cpu)
	}

	ram := specs.RAM
	if ram == nil || ram.Current != "32GB" || ram.MaxSupported != "128GB" ||
		ram.Type != spec.RAMDDR4 || ram.SlotsTotal != 4 || ram.SlotsUsed != 2 {
		t.Errorf("ram mismatch: %+v", ram)
	}

	mb := specs.Motherboard
	if mb == nil || mb.Model != "ASUS PRIME B550M-A" || mb.Chipset != "AMD B550" ||
		mb.FormFactor != "mATX" || mb.SATAPorts != 6 || mb.NVMeSlots != 2 {
		t.Errorf("motherboard mismatch: %+v", mb)
	}
}

func TestDecodeSpecsEmptyInputs(t *testing.T) {
	cases := []string{
		"",
		"   \n\t\n",
		"not valid text",
		"```\n```",
		"```toon\n```",
		"gpu:\n  model: RTX 3060\n", // unrecognized section only
		"cpu:\nram:\n",              // sections with no fields
	}

	for _, input := range cases {
		if specs := DecodeSpecs(input); specs != nil {
			t.Errorf("DecodeSpecs(%q) = %+v, want nil", input, specs)
		}
	}
}

func TestDecodeSpecsFencedBlocks(t *testing.T) {
	body := "cpu:\n  model: Intel N100\n  cores: 4\n"

	for _, fence := range []string{"```", "```toon", "```yaml"} {
		input := fence + "\n" + body + "```"
		specs := DecodeSpecs(input)
		if specs == nil || specs.CPU == nil {
			t.Fatalf("fence %q: expected cpu, got %+v", fence, specs)
		}
		if specs.CPU.Model != "Intel N100" || specs.CPU.Cores != 4 {
			t.Errorf("fence %q: cpu = %+v", fence, specs.CPU)
		}
	}
}

func TestDecodeSpecsNumericCoercion(t *testing.T) {
	input := "cpu:\n  model: Intel Core i3-12100\n  tdp_watts: 65\n  cores: 4\n"

	specs := DecodeSpecs(input)
	if specs == nil || specs.CPU == nil {
		t.Fatal("expected cpu section")
	}
	if specs.CPU.TDPWatts != 65.0 {
		t.Errorf("tdp_watts = %v, want numeric 65", specs.CPU.TDPWatts)
	}
	if specs.CPU.Cores != 4 {
		t.Errorf("cores = %d, want 4", specs.CPU.Cores)
	}
}

func TestDecodeSpecsKeyNormalization(t *testing.T) {
	// Keys are lower-cased with internal whitespace collapsed to "_"
	input := "motherboard:\n  Form Factor: Mini-ITX\n  model: Some Board\n"

	specs := DecodeSpecs(input)
	if specs == nil || specs.Motherboard == nil {
		t.Fatal("expected motherboard section")
	}
	if specs.Motherboard.FormFactor != "Mini-ITX" {
		t.Errorf("form_factor = %q", specs.Motherboard.FormFactor)
	}
}

func TestDecodeSpecsUnknownFieldsDropped(t *testing.T) {
	input := "cpu:\n  model: Intel N305\n  launch_year: 2023\n  codename: Alder Lake-N\n"

	specs := DecodeSpecs(input)
	if specs == nil || specs.CPU == nil {
		t.Fatal("expected cpu section")
	}
	if specs.CPU.Model != "Intel N305" {
		t.Errorf("cpu model = %q", specs.CPU.Model)
	}
}

func TestDecodeSpecsDuplicateSectionOverwrites(t *testing.T) {
	input := "cpu:\n  model: First\ncpu:\n  model: Second\n"

	specs := DecodeSpecs(input)
	if specs == nil || specs.CPU == nil {
		t.Fatal("expected cpu section")
	}
	if specs.CPU.Model != "Second" {
		t.Errorf("cpu model = %q, want Second (last section wins)", specs.CPU.Model)
	}
}

func TestDecodeSpecsRAMTypeDefaults(t *testing.T) {
	cases := map[string]spec.RAMType{
		"type: ddr5":           spec.RAMDDR5,
		"type: lpddr5":         spec.RAMLPDDR5,
		"type: Unified memory": spec.RAMUnified,
		"type: EDO":            spec.RAMDDR4, // unmatched falls back
		"current: 16GB":        spec.RAMDDR4, // missing falls back
	}

	for line, want := range cases {
		input := "ram:\n  " + line + "\n"
		specs := DecodeSpecs(input)
		if specs == nil || specs.RAM == nil {
			t.Fatalf("input %q: expected ram section", line)
		}
		if specs.RAM.Type != want {
			t.Errorf("input %q: ram type = %q, want %q", line, specs.RAM.Type, want)
		}
	}
}

func TestBuildExtractionPrompt(t *testing.T) {
	prompt := BuildExtractionPrompt("Dell OptiPlex 7080", "some abstract text")

	if !strings.Contains(prompt, `"Dell OptiPlex 7080"`) {
		t.Error("prompt missing model name")
	}
	if !strings.Contains(prompt, "some abstract text") {
		t.Error("prompt missing source text")
	}
	if !strings.Contains(prompt, "TOON format") {
		t.Error("prompt missing format directive")
	}
	if !strings.Contains(prompt, "Return ONLY the TOON data") {
		t.Error("prompt missing no-explanation directive")
	}

	// The embedded example must itself decode, or the engine is being
	// taught a dialect the parser rejects.
	if specs := DecodeSpecs("cpu:\n  model: Intel Core i5-8500\n  cores: 6\n  threads: 6\n  tdp_watts: 65\n"); specs == nil {
		t.Error("prompt example does not decode")
	}
}
