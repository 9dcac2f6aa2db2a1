package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestListQuery(t *testing.T) {
	owner := primitive.NewObjectID()
	yes, no := true, false
	others := bson.M{"user_id": bson.M{"$ne": owner}, "is_shared": true}

	tests := []struct {
		name   string
		filter ListFilter
		expect bson.M
	}{
		{
			name:   "own and shared",
			expect: bson.M{"$or": []bson.M{{"user_id": owner}, others}},
		},
		{
			name:   "default is scoped to the owner",
			filter: ListFilter{Default: &yes},
			expect: bson.M{"user_id": owner, "is_default": true},
		},
		{
			name:   "non default keeps shared dashboards of other users",
			filter: ListFilter{Default: &no},
			expect: bson.M{"$or": []bson.M{{"user_id": owner, "is_default": false}, others}},
		},
		{
			name:   "shared only",
			filter: ListFilter{Shared: &yes},
			expect: bson.M{"$or": []bson.M{{"user_id": owner, "is_shared": true}, others}},
		},
		{
			name:   "private only",
			filter: ListFilter{Shared: &no},
			expect: bson.M{"user_id": owner, "is_shared": false},
		},
		{
			name:   "shared default",
			filter: ListFilter{Shared: &yes, Default: &yes},
			expect: bson.M{"user_id": owner, "is_shared": true, "is_default": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, listQuery(owner, tt.filter))
		})
	}
}
