// Package pipeline runs the single-pass reconstruction: grouped submissions
// in, the five record collections out. No concurrency — identifier
// assignment is strictly sequential in first-seen submission order.
package pipeline

import (
	"go.uber.org/zap"

	"github.com/formsource/orderload/internal/build"
	"github.com/formsource/orderload/internal/derive"
	"github.com/formsource/orderload/internal/model"
)

// Convert reconstructs the record set for the given submissions. Every
// submission yields one order, one order item and one incorporation; the
// ITIN application and operating agreement are created iff their rules
// match. All identifiers for a submission are allocated before any builder
// runs, so the order item's agreement reference and the agreement row always
// agree.
func Convert(subs []model.Submission, rules derive.Rules, alloc *build.Allocator, p build.Params) *model.RecordSet {
	rs := &model.RecordSet{}

	for _, sub := range subs {
		needsITIN := rules.ITIN.Applies(sub.Fields)
		needsAgreement := rules.Agreement.Applies(sub.Fields)

		orderID := alloc.NextOrder()
		orderItemID := alloc.NextOrderItem()
		incorporationID := alloc.NextIncorporation()

		var itinID, agreementID *int64
		if needsITIN {
			id := alloc.NextITINApplication()
			itinID = &id
		}
		if needsAgreement {
			id := alloc.NextOperatingAgreement()
			agreementID = &id
		}

		rs.Orders = append(rs.Orders, build.Order(orderID, sub.Key, p))
		rs.OrderItems = append(rs.OrderItems, build.OrderItem(orderItemID, orderID, needsITIN, agreementID, p))
		rs.Incorporations = append(rs.Incorporations, build.Incorporation(incorporationID, orderItemID, sub.Fields, p))

		if itinID != nil {
			rs.ITINApplications = append(rs.ITINApplications, build.ITINApplication(*itinID, orderItemID, sub.Fields, p))
		}
		if agreementID != nil {
			rs.OperatingAgreements = append(rs.OperatingAgreements, build.OperatingAgreement(*agreementID, orderItemID, sub.Fields, p))
		}
	}

	zap.L().Info("reconstruction complete",
		zap.Int("orders", len(rs.Orders)),
		zap.Int("order_items", len(rs.OrderItems)),
		zap.Int("incorporations", len(rs.Incorporations)),
		zap.Int("itin_applications", len(rs.ITINApplications)),
		zap.Int("operating_agreements", len(rs.OperatingAgreements)),
	)

	return rs
}
