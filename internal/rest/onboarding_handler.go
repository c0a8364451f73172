package rest

import (
	"fulfillment-be/internal/onboarding"
	"fulfillment-be/internal/seller"
	"fulfillment-be/internal/utils"

	"github.com/gin-gonic/gin"
)

type OnboardingHandler struct {
	gate    onboarding.Service
	sellers seller.Service
}

func NewOnboardingHandler(gate onboarding.Service, sellers seller.Service) *OnboardingHandler {
	return &OnboardingHandler{gate: gate, sellers: sellers}
}

// Status reports the seller's onboarding state and, when the client names the
// step it is on via ?current_step=, the gate decision for that step.
func (h *OnboardingHandler) Status(c *gin.Context) {
	ctx := c.Request.Context()
	sellerID, _ := utils.GetSellerIDFromContext(ctx)

	decision, err := h.gate.EvaluateAccess(ctx, sellerID, c.Query("current_step"))
	if err != nil {
		respondError(c, err)
		return
	}

	data := gin.H{
		"allowed":     decision.Allowed,
		"redirect_to": decision.RedirectTo,
	}

	// The status fields are best-effort: when the fetch failed but the gate
	// failed open, the decision alone is still served.
	if st, err := h.sellers.OnboardingStatus(ctx, sellerID); err == nil {
		data["needs_onboarding"] = st.NeedsOnboarding
		data["current_step"] = st.CurrentStep
	}

	respondOK(c, data)
}
