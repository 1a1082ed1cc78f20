/*
 * Copyright 2026 The Revtask Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package types

// User is a member of the user directory. Tasks reference users by ID as
// their creator and last updater.
type User struct {
	// ID is the unique ID of the user.
	ID int64 `json:"id" yaml:"id"`

	// Username is the username of the user.
	Username string `json:"username" yaml:"username"`
}
