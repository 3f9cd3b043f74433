// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package runner

import "crypto/rand"

const hexAlphabet = "0123456789abcdef"

// newRunID generates an 8-character lowercase hex run id drawn from a
// uniform random source (crypto/rand), grounded on the teacher's
// nanoid-style generator in internal/action/utility/id.go. Collisions
// are negligible within a process lifetime; spec.md requires no
// cross-process uniqueness guarantee.
func newRunID() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	id := make([]byte, 8)
	for i, b := range buf {
		id[i] = hexAlphabet[int(b)%len(hexAlphabet)]
	}
	return string(id), nil
}
