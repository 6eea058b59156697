package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/staffrate/staffrate/internal/api"
	"github.com/staffrate/staffrate/internal/gateway"
	"github.com/staffrate/staffrate/internal/notify"
)

// RatingPayload is the customer-rating submission form.
type RatingPayload struct {
	CustomerName  string `json:"customerName" validate:"required"`
	CustomerEmail string `json:"customerEmail" validate:"required,email"`
	CustomerPhone string `json:"customerPhone,omitempty"`
	Rating        int    `json:"rating" validate:"required,min=1,max=5"`
	Feedback      string `json:"feedback,omitempty"`
}

// RatingClient is the CRUD facade over the rating resource, plus the derived
// summary figures the console renders.
type RatingClient struct {
	base

	mu      sync.RWMutex
	ratings []api.Rating
}

// NewRatingClient creates a rating client with an empty collection.
func NewRatingClient(caller Caller, notifier notify.Notifier, opts ...Option) *RatingClient {
	c := &RatingClient{}
	c.init(caller, notifier, opts...)
	return c
}

// Ratings returns a copy of the cached collection.
func (c *RatingClient) Ratings() []api.Rating {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]api.Rating, len(c.ratings))
	copy(out, c.ratings)
	return out
}

// List fetches all ratings and replaces the collection wholesale. The server
// answers with either a bare array or a data envelope; both are accepted.
func (c *RatingClient) List(ctx context.Context) ([]api.Rating, error) {
	done := c.begin()
	defer done()

	body, err := c.caller.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "/ratings/all-ratings"})
	if err != nil {
		return nil, c.fail(err)
	}

	ratings, _, err := gateway.DecodeList[api.Rating](body)
	if err != nil {
		return nil, c.fail(err)
	}

	c.mu.Lock()
	c.ratings = ratings
	c.mu.Unlock()

	return c.Ratings(), nil
}

// ForEmployee fetches the ratings for one employee and replaces the
// collection with them.
func (c *RatingClient) ForEmployee(ctx context.Context, employeeID string) ([]api.Rating, error) {
	done := c.begin()
	defer done()

	body, err := c.caller.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "/ratings/employee/" + employeeID})
	if err != nil {
		return nil, c.fail(err)
	}

	ratings, _, err := gateway.DecodeList[api.Rating](body)
	if err != nil {
		return nil, c.fail(err)
	}

	c.mu.Lock()
	c.ratings = ratings
	c.mu.Unlock()

	return c.Ratings(), nil
}

// Submit records a new customer rating for an employee and appends the
// server-returned record to the collection.
func (c *RatingClient) Submit(ctx context.Context, employeeID string, payload RatingPayload) (*api.Rating, error) {
	if err := c.validate.Struct(payload); err != nil {
		return nil, c.fail(fmt.Errorf("invalid rating: %w", err))
	}

	done := c.begin()
	defer done()

	body, err := c.caller.Do(ctx, gateway.Request{Method: http.MethodPost, Path: "/ratings/submit/" + employeeID, JSON: payload})
	if err != nil {
		return nil, c.fail(err)
	}

	var rating api.Rating
	if err := json.Unmarshal(body, &rating); err != nil || rating.ID == "" {
		return nil, c.fail(fmt.Errorf("unrecognized rating response shape"))
	}

	c.mu.Lock()
	c.ratings = append(c.ratings, rating)
	c.mu.Unlock()

	c.notifier.Success("Rating submitted successfully!")

	return &rating, nil
}

// Update replaces the rating matched by id with the server-returned record.
func (c *RatingClient) Update(ctx context.Context, id string, payload RatingPayload) (*api.Rating, error) {
	if err := c.validate.Struct(payload); err != nil {
		return nil, c.fail(fmt.Errorf("invalid rating: %w", err))
	}

	done := c.begin()
	defer done()

	body, err := c.caller.Do(ctx, gateway.Request{Method: http.MethodPut, Path: "/ratings/update-rating/" + id, JSON: payload})
	if err != nil {
		return nil, c.fail(err)
	}

	var envelope api.UpdatedRatingEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.UpdatedRating == nil {
		return nil, c.fail(fmt.Errorf("unrecognized rating response shape"))
	}

	c.mu.Lock()
	for i := range c.ratings {
		if c.ratings[i].ID == id {
			c.ratings[i] = *envelope.UpdatedRating
		}
	}
	c.mu.Unlock()

	c.notifier.Success("Rating updated successfully!")

	return envelope.UpdatedRating, nil
}

// Delete removes the rating by id.
func (c *RatingClient) Delete(ctx context.Context, id string) error {
	done := c.begin()
	defer done()

	if _, err := c.caller.Do(ctx, gateway.Request{Method: http.MethodDelete, Path: "/ratings/delete-rating/" + id}); err != nil {
		return c.fail(err)
	}

	// Filter into a fresh slice so earlier List results stay intact.
	c.mu.Lock()
	kept := make([]api.Rating, 0, len(c.ratings))
	for _, rating := range c.ratings {
		if rating.ID != id {
			kept = append(kept, rating)
		}
	}
	c.ratings = kept
	c.mu.Unlock()

	c.notifier.Success("Rating deleted successfully!")

	return nil
}

// Average computes the arithmetic mean of the rating field over the records
// matching filter, 0 when none match. A nil filter averages the whole
// collection. Recomputed from the cache on every call, never stored.
func (c *RatingClient) Average(filter func(api.Rating) bool) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	sum, count := 0, 0
	for _, rating := range c.ratings {
		if filter != nil && !filter(rating) {
			continue
		}
		sum += rating.Rating
		count++
	}

	if count == 0 {
		return 0
	}

	return float64(sum) / float64(count)
}

// AverageForEmployee averages the ratings whose embedded employee matches id.
func (c *RatingClient) AverageForEmployee(employeeID string) float64 {
	return c.Average(func(r api.Rating) bool {
		return r.Employee != nil && r.Employee.ID == employeeID
	})
}

// Distribution counts records per star value 1 through 5. Out-of-range
// values are ignored.
func (c *RatingClient) Distribution() map[int]int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	dist := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, rating := range c.ratings {
		if rating.Rating >= 1 && rating.Rating <= 5 {
			dist[rating.Rating]++
		}
	}

	return dist
}
