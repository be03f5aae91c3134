package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"flightdeals-service/internal/domain/entity"
	"flightdeals-service/internal/domain/repository"
	"flightdeals-service/pkg/logger"
)

// sheetRootKey is the collection name the sheet API wraps rows in
const sheetRootKey = "destinations"

// SheetyDestinationRepository reads and updates destination rows over the sheet REST API
type SheetyDestinationRepository struct {
	client   *http.Client
	logger   logger.Logger
	endpoint string
	username string
	password string
}

// NewSheetyDestinationRepository creates a new row store client for endpoint
func NewSheetyDestinationRepository(client *http.Client, endpoint, username, password string, logger logger.Logger) repository.DestinationRepository {
	return &SheetyDestinationRepository{
		client:   client,
		logger:   logger,
		endpoint: endpoint,
		username: username,
		password: password,
	}
}

// FetchAll returns every destination row
func (r *SheetyDestinationRepository) FetchAll(ctx context.Context) ([]*entity.DestinationRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(r.username, r.password)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, transportError("fetch destinations", err)
	}
	defer resp.Body.Close()

	body, err := checkResponse("fetch destinations", resp)
	r.logger.Debug("Row store response", "status", resp.StatusCode, "body", string(body))
	if err != nil {
		return nil, err
	}

	var response map[string][]*entity.DestinationRow
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode destinations: %w", err)
	}

	rows, ok := response[sheetRootKey]
	if !ok {
		return nil, fmt.Errorf("row store response has no %q collection", sheetRootKey)
	}

	for _, row := range rows {
		r.logger.Info("Destination loaded", "id", row.ID, "destination", row.String())
	}

	return rows, nil
}

// Update writes the row's IATA code back to the sheet
func (r *SheetyDestinationRepository) Update(ctx context.Context, row *entity.DestinationRow) error {
	payload := map[string]map[string]string{
		sheetRootKey: {"iataCode": row.IATACode},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal row update: %w", err)
	}

	url := r.endpoint + "/" + strconv.Itoa(row.ID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(r.username, r.password)
	req.Header.Set("Content-Type", "application/json")

	op := fmt.Sprintf("update destination %d", row.ID)
	resp, err := r.client.Do(req)
	if err != nil {
		return transportError(op, err)
	}
	defer resp.Body.Close()

	body, err := checkResponse(op, resp)
	if err != nil {
		r.logger.Warn("Row update rejected", "id", row.ID, "status", resp.StatusCode, "body", string(body))
		return err
	}

	r.logger.Debug("Row updated", "id", row.ID, "iataCode", row.IATACode, "body", string(body))
	return nil
}
