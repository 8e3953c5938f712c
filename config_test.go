package dyncore

import "testing"

func baseValidConfig() ModelConfig {
	return ModelConfig{
		Grid:       SpectralGridConfig{Trunc: 8, NlatHalf: 13, Kind: FullGaussianGrid},
		Planet:     EarthConstants,
		Atmosphere: EarthAtmosphere,
		Tier:       Primitive,
		NLev:       2,
		DrySigma:   []float64{0.5, 0.5},
	}
}

func TestModelConfigValidateAcceptsBaseConfig(t *testing.T) {
	if err := baseValidConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestModelConfigValidateRejectsUndersizedGrid(t *testing.T) {
	c := baseValidConfig()
	c.Grid.NlatHalf = 1
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for undersized grid, got nil")
	}
}

func TestModelConfigValidateRejectsNonPositiveGravity(t *testing.T) {
	c := baseValidConfig()
	c.Planet.Gravity = 0
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for zero gravity, got nil")
	}
}

func TestModelConfigValidateRejectsNonPositiveCp(t *testing.T) {
	c := baseValidConfig()
	c.Atmosphere.Cp = -1
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for negative Cp, got nil")
	}
}

func TestModelConfigValidateRejectsBarotropicMultiLevel(t *testing.T) {
	c := baseValidConfig()
	c.Tier = Barotropic
	c.NLev = 2
	c.DrySigma = []float64{0.5, 0.5}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for multi-level barotropic config, got nil")
	}
}

func TestModelConfigValidateRejectsMismatchedSigmaLength(t *testing.T) {
	c := baseValidConfig()
	c.DrySigma = []float64{1}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for DrySigma/NLev mismatch, got nil")
	}
}

func TestModelConfigValidateRejectsSigmaNotSummingToOne(t *testing.T) {
	c := baseValidConfig()
	c.DrySigma = []float64{0.3, 0.3}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for sigma thicknesses not summing to 1, got nil")
	}
}

func TestAtmosphereConstantsKappa(t *testing.T) {
	k := EarthAtmosphere.Kappa()
	want := EarthAtmosphere.Rd / EarthAtmosphere.Cp
	if k != want {
		t.Fatalf("Kappa() = %g, want %g", k, want)
	}
}

func TestLoadModelConfigRejectsMissingFile(t *testing.T) {
	if _, err := LoadModelConfig("/nonexistent/dyncore-config.toml"); err == nil {
		t.Fatal("expected error for a missing config file, got nil")
	}
}
