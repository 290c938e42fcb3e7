// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import "errors"

// ErrAbandoned is returned by [Receiver.Recv] when the sender was closed
// without sending, e.g. because the producing goroutine gave up or panicked.
var ErrAbandoned = errors.New("handoff: sender abandoned without sending")
