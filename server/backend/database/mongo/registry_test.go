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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/revtask/revtask/api/types"
	"github.com/revtask/revtask/server/backend/database"
)

func encode(t *testing.T, registry *bson.Registry, val any) []byte {
	buf := new(bytes.Buffer)
	encoder := bson.NewEncoder(bson.NewDocumentWriter(buf))
	encoder.SetRegistry(registry)
	require.NoError(t, encoder.Encode(val))
	return buf.Bytes()
}

func decode(t *testing.T, registry *bson.Registry, data []byte, val any) {
	decoder := bson.NewDecoder(bson.NewDocumentReader(bytes.NewReader(data)))
	decoder.SetRegistry(registry)
	require.NoError(t, decoder.Decode(val))
}

func TestRegistry(t *testing.T) {
	registry := NewRegistryBuilder()

	t.Run("types.ID test", func(t *testing.T) {
		id := types.ID(bson.NewObjectID().Hex())
		data := encode(t, registry, bson.M{"id": id})

		raw := bson.Raw(data)
		objectID, ok := raw.Lookup("id").ObjectIDOK()
		assert.True(t, ok)
		assert.Equal(t, id.String(), objectID.Hex())

		var info struct {
			ID types.ID `bson:"id"`
		}
		decode(t, registry, data, &info)
		assert.Equal(t, id, info.ID)
	})

	t.Run("invalid types.ID test", func(t *testing.T) {
		buf := new(bytes.Buffer)
		encoder := bson.NewEncoder(bson.NewDocumentWriter(buf))
		encoder.SetRegistry(registry)
		assert.Error(t, encoder.Encode(bson.M{"id": types.ID("not-an-object-id")}))
	})

	t.Run("revision round trip test", func(t *testing.T) {
		title := "write report"
		due, err := types.ParseDate("2022-12-31")
		require.NoError(t, err)
		createdBy := int64(10)

		revision := database.NewRevisionInfo(3, types.TaskContent{
			Title:   &title,
			DueDate: &due,
			Status:  types.StatusInProgress,
		}, &createdBy, false, nil)
		data := encode(t, registry, revision)

		raw := bson.Raw(data)
		assert.Equal(t, "2022-12-31", raw.Lookup("due_date").StringValue())
		assert.Equal(t, "in_progress", raw.Lookup("status").StringValue())
		assert.Equal(t, bson.TypeNull, raw.Lookup("description").Type)

		decoded := &database.RevisionInfo{}
		decode(t, registry, data, decoded)
		assert.Equal(t, revision.ID, decoded.ID)
		assert.Equal(t, revision.Content(), decoded.Content())
		assert.Equal(t, revision.CreatedBy, decoded.CreatedBy)
		assert.True(t, revision.CreatedAt.Equal(decoded.CreatedAt))
	})
}
