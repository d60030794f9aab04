package ui

import (
	"math"
	"strconv"

	"torus-ca/pkg/core"
)

// MinPanelHeight is the smallest window height that fits the HUD.
const MinPanelHeight = 520

// stepTarget returns the value a +/- press on ctrl would produce from cur, and
// whether that press is allowed at all.
func stepTarget(ctrl core.ParameterControl, cur float64, direction int) (float64, bool) {
	if direction == 0 {
		return cur, false
	}
	switch ctrl.Type {
	case core.ParamTypeInt:
		step := math.Round(ctrl.Step)
		if step <= 0 {
			step = 1
		}
		target := math.Round(cur) + float64(direction)*step
		if ctrl.HasMin && direction < 0 && target < math.Round(ctrl.Min) {
			return cur, false
		}
		if ctrl.HasMax && direction > 0 && target > math.Round(ctrl.Max) {
			return cur, false
		}
		return target, true
	case core.ParamTypeFloat:
		step := ctrl.Step
		if step <= 0 {
			step = 0.05
		}
		target := cur + float64(direction)*step
		// Land exactly on a bound instead of refusing the last partial step.
		if ctrl.HasMin && target < ctrl.Min {
			target = ctrl.Min
		}
		if ctrl.HasMax && target > ctrl.Max {
			target = ctrl.Max
		}
		if math.Abs(target-cur) < 1e-9 {
			return cur, false
		}
		return target, true
	}
	return cur, false
}

func formatFloat(ctrl core.ParameterControl, value float64) string {
	step := ctrl.Step
	if step <= 0 {
		step = 0.05
	}
	precision := 1
	switch {
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(value, 'f', precision, 64)
}

// heading decodes the travel direction of a traffic car from its state index:
// state 0 is empty and the rest are four equal runs of speeds, one run per
// heading in east, south, west, north order.
func heading(states int, code uint8) (dx, dy int, ok bool) {
	if code == 0 || states < 5 || (states-1)%4 != 0 {
		return 0, 0, false
	}
	run := (states - 1) / 4
	switch (int(code) - 1) / run {
	case 0:
		return 1, 0, true
	case 1:
		return 0, 1, true
	case 2:
		return -1, 0, true
	case 3:
		return 0, -1, true
	}
	return 0, 0, false
}
