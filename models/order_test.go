package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	all := []OrderStatus{StatusProcessing, StatusOnWay, StatusCompleted, StatusCancelled}
	allowed := map[OrderStatus]map[OrderStatus]bool{
		StatusProcessing: {StatusOnWay: true, StatusCancelled: true},
		StatusOnWay:      {StatusCompleted: true, StatusCancelled: true},
	}

	for _, from := range all {
		for _, to := range all {
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				assert.Equal(t, allowed[from][to], from.CanTransitionTo(to))
			})
		}
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusProcessing.IsTerminal())
	assert.False(t, StatusOnWay.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
}

func TestParseOrderStatus(t *testing.T) {
	status, ok := ParseOrderStatus("ON_WAY")
	assert.True(t, ok)
	assert.Equal(t, StatusOnWay, status)

	_, ok = ParseOrderStatus("on_way")
	assert.False(t, ok, "status names are case-sensitive")

	_, ok = ParseOrderStatus("SHIPPED")
	assert.False(t, ok)
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "orders", Order{}.TableName())
	assert.Equal(t, "services", Service{}.TableName())
	assert.Equal(t, "available_locations", AvailableLocation{}.TableName())
	assert.Equal(t, "reviews", Review{}.TableName())
	assert.Equal(t, "payments", Payment{}.TableName())
	assert.Len(t, All(), 6)
}
