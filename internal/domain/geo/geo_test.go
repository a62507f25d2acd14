package geo

import (
	"math"
	"testing"
)

func TestBoundingBox_Contains(t *testing.T) {
	box := BoundingBox{North: 52, South: 50, East: 1, West: -1}
	tests := []struct {
		name     string
		lat, lng float64
		want     bool
	}{
		{"center", 51, 0, true},
		{"north-east corner", 52, 1, true},
		{"south-west corner", 50, -1, true},
		{"too far north", 52.0001, 0, false},
		{"too far east", 51, 1.5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := box.Contains(tt.lat, tt.lng); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.lat, tt.lng, got, tt.want)
			}
		})
	}
}

func TestBoundingBox_ContainsAcrossAntimeridian(t *testing.T) {
	box := BoundingBox{North: 10, South: -10, East: -170, West: 170}
	if !box.CrossesAntimeridian() {
		t.Fatal("expected antimeridian crossing")
	}
	if !box.Contains(0, 175) || !box.Contains(0, -175) {
		t.Error("expected points on both sides of ±180 to be inside")
	}
	if box.Contains(0, 0) {
		t.Error("prime meridian must be outside")
	}
}

func TestValidateCoordinates(t *testing.T) {
	if !ValidateCoordinates(90, 180) {
		t.Error("boundary coordinates must be valid")
	}
	if ValidateCoordinates(91, 0) || ValidateCoordinates(0, -181) {
		t.Error("out-of-range coordinates must be invalid")
	}
}

func TestIsFinite(t *testing.T) {
	if IsFinite(math.NaN()) || IsFinite(math.Inf(1)) {
		t.Error("NaN/Inf must not be finite")
	}
	if !IsFinite(0) {
		t.Error("0 must be finite")
	}
}
