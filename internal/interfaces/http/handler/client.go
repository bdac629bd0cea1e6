package handler

import (
	salesapp "github.com/erp/platform/internal/application/sales"
	"github.com/gin-gonic/gin"
)

// ClientHandler handles CRM client and contact HTTP requests
type ClientHandler struct {
	BaseHandler
	clientService *salesapp.ClientService
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *salesapp.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// List godoc
// @ID           listClients
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Param        params query salesapp.ClientListFilter false "Query parameters"
// @Success      200 {object} dto.Response{data=[]salesapp.ClientResponse}
// @Security     BearerAuth
// @Router       /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var f salesapp.ClientListFilter
	if !h.bindQuery(c, &f) {
		return
	}

	clients, total, err := h.clientService.List(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, clients, total, f.ToFilter())
}

// GetByID godoc
// @ID           getClientById
// @Summary      Get a client with its contacts
// @Tags         clients
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Success      200 {object} dto.Response{data=salesapp.ClientResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clients/{id} [get]
func (h *ClientHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	client, err := h.clientService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// Create godoc
// @ID           createClient
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        request body salesapp.ClientRequest true "Client"
// @Success      201 {object} dto.Response{data=salesapp.ClientResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	tenantID, actorID, ok := h.identity(c)
	if !ok {
		return
	}
	var req salesapp.ClientRequest
	if !h.bindJSON(c, &req) {
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), tenantID, actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, client)
}

// Update godoc
// @ID           updateClient
// @Summary      Update a client
// @Description  Archived clients are immutable.
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Param        request body salesapp.ClientRequest true "Client"
// @Success      200 {object} dto.Response{data=salesapp.ClientResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clients/{id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req salesapp.ClientRequest
	if !h.bindJSON(c, &req) {
		return
	}

	client, err := h.clientService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// Delete godoc
// @ID           deleteClient
// @Summary      Archive a client
// @Tags         clients
// @Param        id path string true "Client ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /clients/{id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.clientService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Activate godoc
// @ID           activateClient
// @Summary      Activate a lead, prospect or inactive client
// @Tags         clients
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Success      200 {object} dto.Response{data=salesapp.ClientResponse}
// @Security     BearerAuth
// @Router       /clients/{id}/activate [post]
func (h *ClientHandler) Activate(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	client, err := h.clientService.Activate(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// Archive godoc
// @ID           archiveClient
// @Summary      Archive a client
// @Tags         clients
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Success      200 {object} dto.Response{data=salesapp.ClientResponse}
// @Security     BearerAuth
// @Router       /clients/{id}/archive [post]
func (h *ClientHandler) Archive(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	client, err := h.clientService.Archive(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// ListContacts godoc
// @ID           listClientContacts
// @Summary      List the contacts of a client
// @Tags         clients
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]salesapp.ContactResponse}
// @Security     BearerAuth
// @Router       /clients/{id}/contacts [get]
func (h *ClientHandler) ListContacts(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	contacts, err := h.clientService.ListContacts(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contacts)
}

// GetContact godoc
// @ID           getClientContact
// @Summary      Get a contact
// @Tags         clients
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Param        contactId path string true "Contact ID" format(uuid)
// @Success      200 {object} dto.Response{data=salesapp.ContactResponse}
// @Security     BearerAuth
// @Router       /clients/{id}/contacts/{contactId} [get]
func (h *ClientHandler) GetContact(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	contactID, ok := h.pathID(c, "contactId")
	if !ok {
		return
	}

	contact, err := h.clientService.GetContact(c.Request.Context(), tenantID, id, contactID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contact)
}

// AddContact godoc
// @ID           addClientContact
// @Summary      Add a contact
// @Description  A primary contact clears the flag on the client's other contacts.
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Param        request body salesapp.ContactRequest true "Contact"
// @Success      201 {object} dto.Response{data=salesapp.ContactResponse}
// @Security     BearerAuth
// @Router       /clients/{id}/contacts [post]
func (h *ClientHandler) AddContact(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req salesapp.ContactRequest
	if !h.bindJSON(c, &req) {
		return
	}

	contact, err := h.clientService.AddContact(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, contact)
}

// UpdateContact godoc
// @ID           updateClientContact
// @Summary      Update a contact
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Param        contactId path string true "Contact ID" format(uuid)
// @Param        request body salesapp.ContactRequest true "Contact"
// @Success      200 {object} dto.Response{data=salesapp.ContactResponse}
// @Security     BearerAuth
// @Router       /clients/{id}/contacts/{contactId} [put]
func (h *ClientHandler) UpdateContact(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	contactID, ok := h.pathID(c, "contactId")
	if !ok {
		return
	}
	var req salesapp.ContactRequest
	if !h.bindJSON(c, &req) {
		return
	}

	contact, err := h.clientService.UpdateContact(c.Request.Context(), tenantID, id, contactID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contact)
}

// DeleteContact godoc
// @ID           deleteClientContact
// @Summary      Delete a contact
// @Tags         clients
// @Param        id path string true "Client ID" format(uuid)
// @Param        contactId path string true "Contact ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /clients/{id}/contacts/{contactId} [delete]
func (h *ClientHandler) DeleteContact(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	contactID, ok := h.pathID(c, "contactId")
	if !ok {
		return
	}

	if err := h.clientService.DeleteContact(c.Request.Context(), tenantID, id, contactID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
