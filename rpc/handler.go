package rpc

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/veynar/podium/core"
	"github.com/veynar/podium/history"
	"github.com/veynar/podium/host"
	"github.com/veynar/podium/registry"
)

// Handler holds all dependencies needed to serve RPC methods.
// Mutations go through the host dispatcher as signed calls; queries
// read the store directly.
type Handler struct {
	dispatcher *host.Dispatcher
	store      *registry.Store
	history    *history.History
}

// NewHandler creates an RPC Handler.
func NewHandler(dispatcher *host.Dispatcher, store *registry.Store, hist *history.History) *Handler {
	return &Handler{dispatcher: dispatcher, store: store, history: hist}
}

// Dispatch routes an RPC request to the correct method.
func (h *Handler) Dispatch(req Request) Response {
	switch req.Method {
	case "submitCall":
		return h.submitCall(req)

	case "getWallet":
		return h.getWallet(req)

	case "getInventory":
		return h.getInventory(req)

	case "getWinner":
		return h.getWinner(req)

	case "getActivity":
		return h.getActivity(req)

	case "getWinnerHistory":
		return h.getWinnerHistory(req)

	default:
		return errResponse(req.ID, CodeMethodNotFound, fmt.Sprintf("method %q not found", req.Method))
	}
}

func (h *Handler) submitCall(req Request) Response {
	var call core.Call
	if err := json.Unmarshal(req.Params, &call); err != nil {
		return errResponse(req.ID, CodeInvalidParams, err.Error())
	}
	// Recompute the ID server-side; do not trust the client-provided value.
	call.ID = call.Hash()
	if err := h.dispatcher.Execute(&call); err != nil {
		return errResponse(req.ID, storeErrCode(err), err.Error())
	}
	return okResponse(req.ID, map[string]string{"call_id": call.ID})
}

func (h *Handler) getWallet(req Request) Response {
	address, resp := addressParam(req)
	if resp != nil {
		return *resp
	}
	w, err := h.store.Wallet(address)
	if err != nil {
		return errResponse(req.ID, storeErrCode(err), err.Error())
	}
	return okResponse(req.ID, w)
}

func (h *Handler) getInventory(req Request) Response {
	address, resp := addressParam(req)
	if resp != nil {
		return *resp
	}
	items, err := h.store.Inventory(address)
	if err != nil {
		return errResponse(req.ID, storeErrCode(err), err.Error())
	}
	return okResponse(req.ID, map[string]any{"address": address, "inventory": items})
}

func (h *Handler) getWinner(req Request) Response {
	winner, err := h.store.Winner()
	if err != nil {
		return errResponse(req.ID, CodeInternalError, err.Error())
	}
	result := map[string]any{"winner": nil}
	if winner != "" {
		result["winner"] = winner
	}
	return okResponse(req.ID, result)
}

func (h *Handler) getActivity(req Request) Response {
	address, resp := addressParam(req)
	if resp != nil {
		return *resp
	}
	entries, err := h.history.ActivityByWallet(address)
	if err != nil {
		return errResponse(req.ID, CodeInternalError, err.Error())
	}
	return okResponse(req.ID, entries)
}

func (h *Handler) getWinnerHistory(req Request) Response {
	entries, err := h.history.Winners()
	if err != nil {
		return errResponse(req.ID, CodeInternalError, err.Error())
	}
	return okResponse(req.ID, entries)
}

// addressParam decodes the common {"address": ...} params shape.
// The returned Response is non-nil on failure.
func addressParam(req Request) (string, *Response) {
	var params struct {
		Address string `json:"address"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		resp := errResponse(req.ID, CodeInvalidParams, err.Error())
		return "", &resp
	}
	if params.Address == "" {
		resp := errResponse(req.ID, CodeInvalidParams, "address is required")
		return "", &resp
	}
	return params.Address, nil
}

// storeErrCode maps registry errors onto application error codes.
func storeErrCode(err error) int {
	switch {
	case errors.Is(err, core.ErrAlreadyRegistered):
		return CodeAlreadyRegistered
	case errors.Is(err, core.ErrWalletNotFound):
		return CodeWalletNotFound
	default:
		return CodeInternalError
	}
}
