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

package mongo

import (
	"fmt"
	"reflect"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/revtask/revtask/api/types"
)

var (
	tID   = reflect.TypeOf(types.ID(""))
	tDate = reflect.TypeOf(types.Date{})
)

// NewRegistryBuilder returns a new registry with the codecs of the task
// store types.
func NewRegistryBuilder() *bson.Registry {
	rb := bson.NewRegistry()

	rb.RegisterTypeEncoder(tID, bson.ValueEncoderFunc(idEncoder))
	rb.RegisterTypeDecoder(tID, bson.ValueDecoderFunc(idDecoder))
	rb.RegisterTypeEncoder(tDate, bson.ValueEncoderFunc(dateEncoder))
	rb.RegisterTypeDecoder(tDate, bson.ValueDecoderFunc(dateDecoder))

	return rb
}

// idEncoder stores a types.ID as an ObjectID.
func idEncoder(_ bson.EncodeContext, vw bson.ValueWriter, val reflect.Value) error {
	if val.Type() != tID {
		return bson.ValueEncoderError{Name: "idEncoder", Types: []reflect.Type{tID}, Received: val}
	}

	objectID, err := bson.ObjectIDFromHex(val.String())
	if err != nil {
		return fmt.Errorf("encode id %q: %w", val.String(), err)
	}
	if err := vw.WriteObjectID(objectID); err != nil {
		return fmt.Errorf("encode error: %w", err)
	}

	return nil
}

// idDecoder reads a types.ID from an ObjectID or its hex string.
func idDecoder(_ bson.DecodeContext, vr bson.ValueReader, val reflect.Value) error {
	if val.Type() != tID {
		return bson.ValueDecoderError{Name: "idDecoder", Types: []reflect.Type{tID}, Received: val}
	}

	switch vrType := vr.Type(); vrType {
	case bson.TypeObjectID:
		objectID, err := vr.ReadObjectID()
		if err != nil {
			return fmt.Errorf("decode error: %w", err)
		}
		val.SetString(objectID.Hex())
	case bson.TypeString:
		str, err := vr.ReadString()
		if err != nil {
			return fmt.Errorf("decode error: %w", err)
		}
		val.SetString(str)
	case bson.TypeNull:
		if err := vr.ReadNull(); err != nil {
			return fmt.Errorf("decode error: %w", err)
		}
		val.SetString("")
	default:
		return fmt.Errorf("unsupported type %v for ID", vrType)
	}

	return nil
}

// dateEncoder stores a types.Date in its YYYY-MM-DD form so that equality
// filters compare strings.
func dateEncoder(_ bson.EncodeContext, vw bson.ValueWriter, val reflect.Value) error {
	if val.Type() != tDate {
		return bson.ValueEncoderError{Name: "dateEncoder", Types: []reflect.Type{tDate}, Received: val}
	}

	date := val.Interface().(types.Date)
	if err := vw.WriteString(date.String()); err != nil {
		return fmt.Errorf("encode error: %w", err)
	}

	return nil
}

func dateDecoder(_ bson.DecodeContext, vr bson.ValueReader, val reflect.Value) error {
	if val.Type() != tDate {
		return bson.ValueDecoderError{Name: "dateDecoder", Types: []reflect.Type{tDate}, Received: val}
	}

	if vr.Type() != bson.TypeString {
		return fmt.Errorf("unsupported type %v for date", vr.Type())
	}

	str, err := vr.ReadString()
	if err != nil {
		return fmt.Errorf("decode error: %w", err)
	}
	date, err := types.ParseDate(str)
	if err != nil {
		return fmt.Errorf("decode date %q: %w", str, err)
	}
	val.Set(reflect.ValueOf(date))

	return nil
}
