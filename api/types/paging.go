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

import (
	"math"

	"github.com/revtask/revtask/internal/validation"
)

// Paging is the 1-based page request of a list. Zero values are replaced by
// defaults through Normalize.
type Paging struct {
	Page     int `json:"page" validate:"gte=0"`
	PageSize int `json:"page_size" validate:"gte=0"`
}

// Validate validates the Paging.
func (p Paging) Validate() error {
	return validation.ValidateStruct(p)
}

// Normalize fills in the default page and size and caps the size at
// maxPageSize.
func (p Paging) Normalize(defaultPageSize, maxPageSize int) Paging {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.PageSize == 0 {
		p.PageSize = defaultPageSize
	}
	if maxPageSize > 0 && p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p
}

// Offset returns the number of items before the page. It saturates at
// math.MaxInt for pages too far to be addressed, which yields an empty page.
func (p Paging) Offset() int {
	if p.Page <= 1 || p.PageSize <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}

// TaskPage is one page of a task list.
type TaskPage struct {
	Items []*TaskSummary `json:"items" yaml:"items"`

	// Total is the number of matching tasks before paging.
	Total    int64 `json:"total" yaml:"total"`
	Page     int   `json:"page" yaml:"page"`
	PageSize int   `json:"page_size" yaml:"page_size"`
}

// Pages returns the number of pages.
func (p *TaskPage) Pages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return int((p.Total + int64(p.PageSize) - 1) / int64(p.PageSize))
}

// HasNext reports whether a page follows this one.
func (p *TaskPage) HasNext() bool {
	return p.Page < p.Pages()
}

// HasPrevious reports whether a page precedes this one.
func (p *TaskPage) HasPrevious() bool {
	return p.Page > 1
}
