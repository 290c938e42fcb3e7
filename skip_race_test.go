// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package handoff_test

import "testing"

// skipRace skips stress tests over the value slot.
// The slot is published by an atomix store and observed by an atomix load;
// the race detector does not model that ordering and reports the slot
// access as a race.
func skipRace(tb testing.TB) {
	tb.Helper()
	tb.Skip("skip: value slot is published through atomix ordering")
}
