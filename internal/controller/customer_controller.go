// internal/controller/customer_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/unclebandit/customer-service/internal/dto"
	appErrors "github.com/unclebandit/customer-service/internal/errors"
	"github.com/unclebandit/customer-service/internal/logs"
	"github.com/unclebandit/customer-service/internal/model"
	"github.com/unclebandit/customer-service/internal/queue"
	"github.com/unclebandit/customer-service/internal/repository"
)

const (
	MsgCustomerAdded    = "Customer Added Successfully"
	MsgCustomerRequired = "Customer data is required"
	MsgSaveFailed       = "Failed to save customer: "
	MsgInvalidCustomer  = "Invalid customer data: "
)

type CustomerController struct {
	Repo repository.CustomerRepositoryInterface
	// Events is optional. Publish failures never affect the response.
	Events queue.Queue
}

// AddCustomer handles POST /customer/add-customer.
func (c *CustomerController) AddCustomer(w http.ResponseWriter, r *http.Request) {
	log := logs.FromContext(r.Context())

	customer, err := decodeCustomer(r)
	if err != nil {
		msg := MsgCustomerRequired
		if !errors.Is(err, appErrors.ErrMissingInput) {
			msg = MsgInvalidCustomer + err.Error()
		}
		log.WithError(err).Info("rejected customer payload")
		writeEnvelope(w, r, http.StatusBadRequest, dto.Fail[model.Customer](msg))
		return
	}

	// ids are assigned by the store only
	customer.ID = 0

	saved, err := c.Repo.Save(r.Context(), customer)
	if err != nil {
		log.WithError(err).Error("❌ failed to save customer")
		writeEnvelope(w, r, http.StatusInternalServerError, dto.Fail[model.Customer](MsgSaveFailed+err.Error()))
		return
	}

	log.WithField("customer_id", saved.ID).Info("✅ customer added")
	writeEnvelope(w, r, http.StatusCreated, dto.Ok(MsgCustomerAdded, saved))

	// the client gets its 201 even while the broker is slow
	if err := http.NewResponseController(w).Flush(); err != nil {
		log.WithError(err).Debug("response writer does not support flushing")
	}
	c.publishCreated(r, saved.ID)
}

func (c *CustomerController) publishCreated(r *http.Request, id int) {
	if c.Events == nil {
		return
	}
	if err := c.Events.Publish(queue.TopicCustomerCreated, queue.CustomerCreated{CustomerID: id}); err != nil {
		logs.FromContext(r.Context()).WithError(err).WithField("customer_id", id).Warn("⚠️ failed to publish customer_created")
	}
}

// decodeCustomer returns ErrMissingInput for an empty body or a JSON null.
func decodeCustomer(r *http.Request) (*model.Customer, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, appErrors.ErrMissingInput
	}

	var customer *model.Customer
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, appErrors.ErrMissingInput
		}
		return nil, err
	}
	if customer == nil {
		return nil, appErrors.ErrMissingInput
	}
	return customer, nil
}

func writeEnvelope(w http.ResponseWriter, r *http.Request, status int, resp dto.Response[model.Customer]) {
	if err := resp.Write(w, status); err != nil {
		logs.FromContext(r.Context()).WithError(err).Warn("failed to write response")
	}
}
