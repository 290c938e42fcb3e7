// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package task_test

import "testing"

// skipRace skips tests whose replies cross goroutines.
// A reply value is published by an atomix store on the cell state and
// observed by an atomix load; the race detector does not model that
// ordering and reports the value slot as a race.
func skipRace(tb testing.TB) {
	tb.Helper()
	tb.Skip("skip: reply slot is published through atomix ordering")
}
