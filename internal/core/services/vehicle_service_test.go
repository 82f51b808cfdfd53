package services_test

import (
	"errors"

	"github.com/SscSPs/partsledger/internal/apperrors"
	"github.com/SscSPs/partsledger/internal/core/domain"
	"github.com/SscSPs/partsledger/internal/dto"
)

func (s *LedgerSuite) TestVehicleCatalogueAndSearch() {
	maruti, err := s.svc.Vehicle.CreateMake(s.ctx, dto.CreateMakeRequest{Name: "Maruti", Country: ptr("India")}, testOperator)
	s.Require().NoError(err)
	tata, err := s.svc.Vehicle.CreateMake(s.ctx, dto.CreateMakeRequest{Name: "Tata"}, testOperator)
	s.Require().NoError(err)

	_, err = s.svc.Vehicle.CreateMake(s.ctx, dto.CreateMakeRequest{Name: "Maruti"}, testOperator)
	s.True(errors.Is(err, apperrors.ErrDuplicate))

	swift, err := s.svc.Vehicle.CreateModel(s.ctx, dto.CreateModelRequest{MakeID: maruti.MakeID, Name: "Swift"}, testOperator)
	s.Require().NoError(err)
	_, err = s.svc.Vehicle.CreateModel(s.ctx, dto.CreateModelRequest{MakeID: maruti.MakeID, Name: "Alto"}, testOperator)
	s.Require().NoError(err)
	_, err = s.svc.Vehicle.CreateModel(s.ctx, dto.CreateModelRequest{MakeID: "missing", Name: "Ghost"}, testOperator)
	s.True(errors.Is(err, apperrors.ErrNotFound))

	models, err := s.svc.Vehicle.ListModels(s.ctx, maruti.MakeID)
	s.Require().NoError(err)
	s.Len(models, 2)

	_, err = s.svc.Vehicle.SearchVehicles(s.ctx, "s")
	s.True(errors.Is(err, apperrors.ErrValidation))

	matches, err := s.svc.Vehicle.SearchVehicles(s.ctx, "swi")
	s.Require().NoError(err)
	s.Require().Len(matches, 1)
	s.Equal("Maruti", matches[0].MakeName)
	s.Equal(swift.ModelID, *matches[0].ModelID)

	matches, err = s.svc.Vehicle.SearchVehicles(s.ctx, "maruti")
	s.Require().NoError(err)
	s.Len(matches, 2, "a make match lists each of its models")

	matches, err = s.svc.Vehicle.SearchVehicles(s.ctx, "tata")
	s.Require().NoError(err)
	s.Require().Len(matches, 1)
	s.Equal(tata.MakeID, matches[0].MakeID)
	s.Nil(matches[0].ModelID, "a make without models still matches")
}

func (s *LedgerSuite) TestCompatibilityFindsFittingItems() {
	maruti, err := s.svc.Vehicle.CreateMake(s.ctx, dto.CreateMakeRequest{Name: "Maruti"}, testOperator)
	s.Require().NoError(err)
	hyundai, err := s.svc.Vehicle.CreateMake(s.ctx, dto.CreateMakeRequest{Name: "Hyundai"}, testOperator)
	s.Require().NoError(err)
	swift, err := s.svc.Vehicle.CreateModel(s.ctx, dto.CreateModelRequest{MakeID: maruti.MakeID, Name: "Swift"}, testOperator)
	s.Require().NoError(err)
	alto, err := s.svc.Vehicle.CreateModel(s.ctx, dto.CreateModelRequest{MakeID: maruti.MakeID, Name: "Alto"}, testOperator)
	s.Require().NoError(err)
	i20, err := s.svc.Vehicle.CreateModel(s.ctx, dto.CreateModelRequest{MakeID: hyundai.MakeID, Name: "i20"}, testOperator)
	s.Require().NoError(err)

	pads := s.createItem("PAD-1", "4", "300")
	filter := s.createItem("FIL-1", "4", "120")

	rule, err := s.svc.Vehicle.AddCompatibility(s.ctx, dto.AddCompatibilityRequest{
		ItemID: pads.ItemID, MakeID: maruti.MakeID, ModelID: &swift.ModelID, YearFrom: ptr(2015), YearTo: ptr(2020),
	}, testOperator)
	s.Require().NoError(err)
	_, err = s.svc.Vehicle.AddCompatibility(s.ctx, dto.AddCompatibilityRequest{
		ItemID: filter.ItemID, MakeID: maruti.MakeID,
	}, testOperator)
	s.Require().NoError(err)

	_, err = s.svc.Vehicle.AddCompatibility(s.ctx, dto.AddCompatibilityRequest{
		ItemID: pads.ItemID, MakeID: maruti.MakeID, ModelID: &i20.ModelID,
	}, testOperator)
	s.True(errors.Is(err, apperrors.ErrValidation), "model of another make")

	_, err = s.svc.Vehicle.AddCompatibility(s.ctx, dto.AddCompatibilityRequest{
		ItemID: pads.ItemID, MakeID: maruti.MakeID, YearFrom: ptr(2020), YearTo: ptr(2010),
	}, testOperator)
	s.True(errors.Is(err, apperrors.ErrValidation), "inverted year range")

	find := func(modelID *string, year *int) []string {
		items, err := s.svc.Vehicle.FindItemsForVehicle(s.ctx, dto.VehicleItemsParams{MakeID: maruti.MakeID, ModelID: modelID, Year: year})
		s.Require().NoError(err)
		skus := make([]string, len(items))
		for i, it := range items {
			skus[i] = it.SKU
		}
		return skus
	}

	s.Equal([]string{"FIL-1", "PAD-1"}, find(&swift.ModelID, ptr(2018)))
	s.Equal([]string{"FIL-1"}, find(&swift.ModelID, ptr(2022)))
	s.Equal([]string{"FIL-1"}, find(&alto.ModelID, nil))
	s.Equal([]string{"FIL-1", "PAD-1"}, find(nil, nil))

	rules, err := s.svc.Vehicle.ListCompatibility(s.ctx, pads.ItemID)
	s.Require().NoError(err)
	s.Len(rules, 1)

	s.Require().NoError(s.svc.Vehicle.RemoveCompatibility(s.ctx, rule.CompatibilityID, testOperator))
	s.Equal([]string{"FIL-1"}, find(&swift.ModelID, ptr(2018)))

	err = s.svc.Vehicle.RemoveCompatibility(s.ctx, rule.CompatibilityID, testOperator)
	s.True(errors.Is(err, apperrors.ErrNotFound))

	entries, err := s.svc.Audit.ListAuditLogs(s.ctx, dto.ListAuditLogsParams{TableName: "item_vehicle_compatibility", RecordID: rule.CompatibilityID})
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(domain.AuditDelete, entries[0].Action)
	s.Empty(entries[0].NewValue)
}
