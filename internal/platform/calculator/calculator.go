// Package calculator implements the pediatric nephrology bedside formulas
// used during data entry: eGFR (bedside Schwartz), body surface area
// (Mosteller) and BMI.
package calculator

import (
	"errors"
	"math"
)

var ErrNonPositiveInput = errors.New("inputs must be positive")

// schwartzK is the bedside Schwartz constant (height in cm, creatinine in
// mg/dL, result in mL/min/1.73m²).
const schwartzK = 0.413

// EGFRBedsideSchwartz estimates glomerular filtration rate for children.
func EGFRBedsideSchwartz(heightCM, creatinineMgDL float64) (float64, error) {
	if heightCM <= 0 || creatinineMgDL <= 0 {
		return 0, ErrNonPositiveInput
	}
	return round1(schwartzK * heightCM / creatinineMgDL), nil
}

// BSAMosteller computes body surface area in m².
func BSAMosteller(heightCM, weightKG float64) (float64, error) {
	if heightCM <= 0 || weightKG <= 0 {
		return 0, ErrNonPositiveInput
	}
	return round2(math.Sqrt(heightCM * weightKG / 3600)), nil
}

// BMI computes body mass index in kg/m².
func BMI(weightKG, heightCM float64) (float64, error) {
	if heightCM <= 0 || weightKG <= 0 {
		return 0, ErrNonPositiveInput
	}
	m := heightCM / 100
	return round1(weightKG / (m * m)), nil
}

// CKDStageFromEGFR maps an eGFR to the KDIGO CKD stage (1 through 5).
func CKDStageFromEGFR(egfr float64) int {
	switch {
	case egfr >= 90:
		return 1
	case egfr >= 60:
		return 2
	case egfr >= 30:
		return 3
	case egfr >= 15:
		return 4
	default:
		return 5
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
