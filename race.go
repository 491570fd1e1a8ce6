// © Magnesium Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package magnesium

// RaceEnabled is true when the race detector is active. No test in this
// package currently consults it.
const RaceEnabled = true
