package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/myhub/pkg/api/types"
	"github.com/urmzd/myhub/pkg/scene"
)

// ScenesHandler handles scene endpoints
type ScenesHandler struct {
	activator *scene.Activator
}

// NewScenesHandler creates a new scenes handler
func NewScenesHandler(activator *scene.Activator) *ScenesHandler {
	return &ScenesHandler{activator: activator}
}

// ListScenes handles GET /scenes/list
// @Summary      List scenes
// @Description  Returns the fixed scene catalog
// @Tags         scenes
// @Produce      json
// @Success      200  {array}  scene.Scene
// @Router       /scenes/list [get]
func (h *ScenesHandler) ListScenes(c *gin.Context) {
	c.JSON(http.StatusOK, h.activator.List())
}

// ActivateScene handles POST /scenes/activate
// @Summary      Activate a scene
// @Description  Applies the scene to every device. Devices are updated independently; failures are counted in failed_devices.
// @Tags         scenes
// @Accept       json
// @Produce      json
// @Param        request  body      types.ActivateSceneRequest  true  "Scene id"
// @Success      200      {object}  scene.Result
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      404      {object}  types.ErrorResponse  "Scene not found"
// @Failure      500      {object}  types.ErrorResponse  "Store error"
// @Router       /scenes/activate [post]
func (h *ScenesHandler) ActivateScene(c *gin.Context) {
	var req types.ActivateSceneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "scene_id is required")
		return
	}

	result, err := h.activator.Activate(c.Request.Context(), req.SceneID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
