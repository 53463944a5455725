package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"rwagate/internal/asset/handler/mocks"
	"rwagate/internal/asset/models"
	"rwagate/internal/dispatch"
	"rwagate/internal/extrameta"
	"rwagate/internal/ledger"
	"rwagate/internal/ledger/ledgertest"
	"rwagate/internal/ledger/store"
	"rwagate/internal/program"
	"rwagate/pkg/domain"
	dErrors "rwagate/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service,Instructions
type AssetHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	program *program.Program
	router  http.Handler

	payer     domain.Address
	custodian domain.Address
	mint      domain.Address
}

func TestAssetHandlerSuite(t *testing.T) {
	suite.Run(t, new(AssetHandlerSuite))
}

func (s *AssetHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	s.program = program.New(ledgertest.Address("rwa-program"), ledger.NewRuntime(store.NewInMemoryStore()))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	New(s.service, s.program, logger).Register(r)
	s.router = r

	s.payer = ledgertest.Address("payer")
	s.custodian = ledgertest.Address("custodian")
	s.mint = ledgertest.Address("mint")
}

func (s *AssetHandlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *AssetHandlerSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var body map[string]string
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func (s *AssetHandlerSuite) details() *models.AssetDetails {
	return &models.AssetDetails{
		AssetType:        "RealEstate",
		Identifier:       "DEED-1187",
		Jurisdiction:     "US-TX",
		Valuation:        1000,
		LastAuditDate:    1_777_000_000,
		Custodian:        s.custodian,
		ComplianceStatus: true,
		MetadataURI:      "https://registry.example/deed-1187",
	}
}

func (s *AssetHandlerSuite) assetsPath(suffix string) string {
	return "/v1/assets/" + s.mint.String() + suffix
}

func (s *AssetHandlerSuite) TestCreate() {
	s.Run("invokes initialize_asset and returns the committed record", func() {
		args := dispatch.InitializeAssetArgs{
			AssetType:    "RealEstate",
			Identifier:   "DEED-1187",
			Jurisdiction: "US-TX",
			Valuation:    1000,
			MetadataURI:  "https://registry.example/deed-1187",
		}
		want := s.program.CreateAssetInstruction(s.payer, s.custodian, s.mint, args)
		s.service.EXPECT().InvokeForAsset(gomock.Any(), want, s.mint).Return(s.details(), nil)

		rec := s.do(http.MethodPost, "/v1/assets", map[string]any{
			"payer":        s.payer.String(),
			"custodian":    s.custodian.String(),
			"mint":         s.mint.String(),
			"asset_type":   "RealEstate",
			"identifier":   "DEED-1187",
			"jurisdiction": "US-TX",
			"valuation":    1000,
			"metadata_uri": "https://registry.example/deed-1187",
		})

		s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
		var resp map[string]any
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal(s.program.AssetAddress(s.mint).String(), resp["address"])
		s.Equal(s.program.ExtraAccountMetaListAddress(s.mint).String(), resp["extra_account_meta_list"])
		s.Equal(s.custodian.String(), resp["custodian"])
		s.Equal(true, resp["compliance_status"])
	})

	s.Run("text fields reach the program byte for byte", func() {
		args := dispatch.InitializeAssetArgs{
			AssetType:    "  RealEstate ",
			Identifier:   "DEED-1187\t",
			Jurisdiction: " US-TX",
			MetadataURI:  "https://registry.example/deed-1187 ",
		}
		want := s.program.CreateAssetInstruction(s.payer, s.custodian, s.mint, args)
		s.service.EXPECT().InvokeForAsset(gomock.Any(), want, s.mint).Return(s.details(), nil)

		rec := s.do(http.MethodPost, "/v1/assets", map[string]any{
			"payer":        s.payer.String(),
			"custodian":    s.custodian.String(),
			"mint":         s.mint.String(),
			"asset_type":   "  RealEstate ",
			"identifier":   "DEED-1187\t",
			"jurisdiction": " US-TX",
			"metadata_uri": "https://registry.example/deed-1187 ",
		})
		s.Equal(http.StatusCreated, rec.Code, rec.Body.String())
	})

	s.Run("responds with the record the call committed", func() {
		committed := s.details()
		committed.Valuation = 4200
		s.service.EXPECT().InvokeForAsset(gomock.Any(), gomock.Any(), s.mint).Return(committed, nil)
		s.service.EXPECT().ReadAsset(gomock.Any(), gomock.Any()).Times(0)

		rec := s.do(http.MethodPost, "/v1/assets", map[string]any{
			"payer":     s.payer.String(),
			"custodian": s.custodian.String(),
			"mint":      s.mint.String(),
			"valuation": 4200,
		})
		s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
		var resp AssetResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal(*committed, resp.AssetDetails)
	})

	s.Run("missing custodian never reaches the program", func() {
		rec := s.do(http.MethodPost, "/v1/assets", map[string]any{
			"payer": s.payer.String(),
			"mint":  s.mint.String(),
		})
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(string(dErrors.CodeValidation), s.errorCode(rec))
	})

	s.Run("malformed address is a bad request", func() {
		rec := s.do(http.MethodPost, "/v1/assets", map[string]any{
			"payer":     "not-base58-0OIl",
			"custodian": s.custodian.String(),
			"mint":      s.mint.String(),
		})
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("missing co-signature is unauthorized", func() {
		s.service.EXPECT().InvokeForAsset(gomock.Any(), gomock.Any(), s.mint).
			Return(nil, dErrors.New(dErrors.CodeUnauthorized, "missing signature"))

		rec := s.do(http.MethodPost, "/v1/assets", map[string]any{
			"payer":     s.payer.String(),
			"custodian": s.custodian.String(),
			"mint":      s.mint.String(),
		})
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("existing record is a conflict", func() {
		s.service.EXPECT().InvokeForAsset(gomock.Any(), gomock.Any(), s.mint).
			Return(nil, dErrors.New(dErrors.CodeDuplicateRecord, "asset already exists"))

		rec := s.do(http.MethodPost, "/v1/assets", map[string]any{
			"payer":     s.payer.String(),
			"custodian": s.custodian.String(),
			"mint":      s.mint.String(),
		})
		s.Equal(http.StatusConflict, rec.Code)
		s.Equal(string(dErrors.CodeDuplicateRecord), s.errorCode(rec))
	})
}

func (s *AssetHandlerSuite) TestGet() {
	s.Run("returns the record", func() {
		s.service.EXPECT().ReadAsset(gomock.Any(), s.mint).Return(s.details(), nil)

		rec := s.do(http.MethodGet, s.assetsPath(""), nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var resp AssetResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal(*s.details(), resp.AssetDetails)
		s.Equal(s.mint, resp.Mint)
	})

	s.Run("unknown mint is not found", func() {
		s.service.EXPECT().ReadAsset(gomock.Any(), s.mint).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "asset not found"))

		rec := s.do(http.MethodGet, s.assetsPath(""), nil)
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("invalid mint in path", func() {
		rec := s.do(http.MethodGet, "/v1/assets/0OIl", nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("internal errors hide their message", func() {
		s.service.EXPECT().ReadAsset(gomock.Any(), s.mint).
			Return(nil, dErrors.New(dErrors.CodeInternal, "connection refused by 10.0.0.7"))

		rec := s.do(http.MethodGet, s.assetsPath(""), nil)
		s.Equal(http.StatusInternalServerError, rec.Code)
		s.NotContains(rec.Body.String(), "10.0.0.7")
	})
}

func (s *AssetHandlerSuite) TestUpdate() {
	s.Run("absent fields stay absent", func() {
		valuation := uint64(2000)
		want := s.program.UpdateAssetInstruction(s.custodian, s.mint, models.Update{Valuation: &valuation})
		updated := s.details()
		updated.Valuation = 2000
		s.service.EXPECT().InvokeForAsset(gomock.Any(), want, s.mint).Return(updated, nil)

		rec := s.do(http.MethodPatch, s.assetsPath(""), map[string]any{
			"custodian": s.custodian.String(),
			"valuation": 2000,
		})
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
		var resp AssetResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal(uint64(2000), resp.Valuation)
	})

	s.Run("wrong custodian is forbidden", func() {
		s.service.EXPECT().InvokeForAsset(gomock.Any(), gomock.Any(), s.mint).
			Return(nil, dErrors.New(dErrors.CodeUnauthorizedCustodian, "caller is not the asset custodian"))

		rec := s.do(http.MethodPatch, s.assetsPath(""), map[string]any{
			"custodian":         ledgertest.Address("stranger").String(),
			"compliance_status": false,
		})
		s.Equal(http.StatusForbidden, rec.Code)
		s.Equal(string(dErrors.CodeUnauthorizedCustodian), s.errorCode(rec))
	})

	s.Run("unknown field is rejected", func() {
		rec := s.do(http.MethodPatch, s.assetsPath(""), map[string]any{
			"custodian":  s.custodian.String(),
			"asset_type": "Art",
		})
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *AssetHandlerSuite) TestInitializeExtraAccountMetas() {
	want := s.program.InitializeExtraAccountMetaListInstruction(s.payer, s.mint)
	s.service.EXPECT().Invoke(gomock.Any(), want).Return(nil)

	rec := s.do(http.MethodPost, s.assetsPath("/extra-account-metas"), map[string]any{
		"payer": s.payer.String(),
	})
	s.Require().Equal(http.StatusCreated, rec.Code)
	var resp ExtraAccountMetasResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(s.program.ExtraAccountMetaListAddress(s.mint), resp.ListAddress)
}

func (s *AssetHandlerSuite) TestResolveExtraAccounts() {
	source := ledgertest.Address("source")
	owner := ledgertest.Address("owner")

	s.Run("passes the transfer through", func() {
		fixed := extrameta.TransferAccounts{Source: source, Mint: s.mint, Owner: owner}
		s.service.EXPECT().ResolveExtraAccounts(gomock.Any(), fixed, uint64(500)).
			Return(&extrameta.Resolution{
				ListAddress: s.program.ExtraAccountMetaListAddress(s.mint),
				Metas:       []extrameta.Meta{},
			}, nil)

		path := s.assetsPath("/extra-account-metas") + "?source=" + source.String() + "&owner=" + owner.String() + "&amount=500"
		rec := s.do(http.MethodGet, path, nil)
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
		s.Contains(rec.Body.String(), s.program.ExtraAccountMetaListAddress(s.mint).String())
	})

	s.Run("bad amount", func() {
		rec := s.do(http.MethodGet, s.assetsPath("/extra-account-metas")+"?amount=-1", nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("list not initialized", func() {
		s.service.EXPECT().ResolveExtraAccounts(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "extra account meta list not found"))

		rec := s.do(http.MethodGet, s.assetsPath("/extra-account-metas"), nil)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *AssetHandlerSuite) TestTransferCheck() {
	fixed := extrameta.TransferAccounts{
		Source:      ledgertest.Address("source"),
		Mint:        s.mint,
		Destination: ledgertest.Address("destination"),
		Owner:       ledgertest.Address("owner"),
	}
	body := map[string]any{
		"source":      fixed.Source.String(),
		"destination": fixed.Destination.String(),
		"owner":       fixed.Owner.String(),
		"amount":      500,
	}

	s.Run("compliant asset is allowed", func() {
		s.service.EXPECT().Invoke(gomock.Any(), s.program.TransferHookInstruction(fixed, 500)).Return(nil)

		rec := s.do(http.MethodPost, s.assetsPath("/transfer-check"), body)
		s.Require().Equal(http.StatusOK, rec.Code)
		var resp TransferCheckResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.True(resp.Allowed)
		s.Equal(uint64(500), resp.Amount)
	})

	s.Run("non-compliant asset is forbidden", func() {
		s.service.EXPECT().Invoke(gomock.Any(), gomock.Any()).
			Return(dErrors.New(dErrors.CodeNonCompliantAsset, "asset is not compliant"))

		rec := s.do(http.MethodPost, s.assetsPath("/transfer-check"), body)
		s.Equal(http.StatusForbidden, rec.Code)
		s.True(strings.Contains(rec.Body.String(), "non_compliant_asset"))
	})

	s.Run("missing owner", func() {
		rec := s.do(http.MethodPost, s.assetsPath("/transfer-check"), map[string]any{
			"source":      fixed.Source.String(),
			"destination": fixed.Destination.String(),
		})
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}
