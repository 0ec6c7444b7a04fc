package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionWorkOrder(t *testing.T) {
	allowed := []struct{ from, to string }{
		{WorkOrderDraft, WorkOrderApproved},
		{WorkOrderDraft, WorkOrderCancelled},
		{WorkOrderApproved, WorkOrderCompleted},
		{WorkOrderApproved, WorkOrderCancelled},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransitionWorkOrder(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct{ from, to string }{
		{WorkOrderDraft, WorkOrderCompleted},
		{WorkOrderApproved, WorkOrderDraft},
		{WorkOrderCompleted, WorkOrderCancelled},
		{WorkOrderCancelled, WorkOrderDraft},
		{WorkOrderCompleted, WorkOrderApproved},
	}
	for _, tc := range denied {
		assert.False(t, CanTransitionWorkOrder(tc.from, tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestTerminalStatusesHaveNoTransitions(t *testing.T) {
	assert.Empty(t, ValidWorkOrderTransitions[WorkOrderCompleted])
	assert.Empty(t, ValidWorkOrderTransitions[WorkOrderCancelled])
}

func TestCreateWorkOrderRequestValidate(t *testing.T) {
	valid := CreateWorkOrderRequest{
		FirmID: "firm-1",
		Items: []CreateWorkOrderItemRequest{
			{ServiceCode: "PILOTAGE", Quantity: 2},
		},
	}
	assert.Empty(t, valid.Validate())

	noFirm := valid
	noFirm.FirmID = ""
	assert.Contains(t, noFirm.Validate(), "firmId")

	noItems := valid
	noItems.Items = nil
	assert.Contains(t, noItems.Validate(), "items")

	badQty := valid
	badQty.Items = []CreateWorkOrderItemRequest{{ServiceCode: "TOWAGE", Quantity: 0}}
	assert.Contains(t, badQty.Validate(), "items")

	noCode := valid
	noCode.Items = []CreateWorkOrderItemRequest{{ServiceCode: "", Quantity: 1}}
	assert.Contains(t, noCode.Validate(), "items")
}

func TestCreateSgkFilingRequestValidate(t *testing.T) {
	valid := CreateSgkFilingRequest{
		Period:  "202510",
		FileURL: "/api/files/sgk/1_bildirge.pdf",
	}
	assert.Empty(t, valid.Validate())

	noPeriod := valid
	noPeriod.Period = ""
	assert.Contains(t, noPeriod.Validate(), "period")

	noFile := valid
	noFile.FileURL = ""
	assert.Contains(t, noFile.Validate(), "fileUrl")
}
