package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"ctchen222/hotseat/internal/api/models"
	"ctchen222/hotseat/internal/api/repository"
	"ctchen222/hotseat/internal/api/response"
	"ctchen222/hotseat/internal/api/service"
	"ctchen222/hotseat/internal/api/token"
	"ctchen222/hotseat/internal/game"

	"github.com/gin-gonic/gin"
)

// GameController handles game-related HTTP requests.
type GameController struct {
	gameService service.GameService
	handles     token.Issuer
}

// NewGameController creates a new GameController.
func NewGameController(gameService service.GameService, handles token.Issuer) *GameController {
	return &GameController{
		gameService: gameService,
		handles:     handles,
	}
}

// RegisterRoutes mounts the game endpoints on rg.
func (gc *GameController) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/games", gc.NewGame)

	games := rg.Group("/games/:id", RequireHandle(gc.handles))
	games.GET("", gc.GetGame)
	games.POST("/moves", gc.Move)
	games.POST("/reset", gc.Reset)
	games.DELETE("", gc.EndGame)
}

// NewGame handles the game creation endpoint.
func (gc *GameController) NewGame(c *gin.Context) {
	var req models.NewGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := gc.gameService.NewGame(c.Request.Context(), &req)
	if err != nil {
		gc.fail(c, err)
		return
	}

	response.CreatedResponse(c, resp)
}

// GetGame handles the game state endpoint.
func (gc *GameController) GetGame(c *gin.Context) {
	state, err := gc.gameService.State(c.Request.Context(), c.Param("id"))
	if err != nil {
		gc.fail(c, err)
		return
	}

	response.SuccessResponse(c, state)
}

// Move handles the move endpoint. Illegal moves succeed with accepted=false.
func (gc *GameController) Move(c *gin.Context) {
	var req models.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := gc.gameService.Move(c.Request.Context(), c.Param("id"), *req.Index)
	if err != nil {
		gc.fail(c, err)
		return
	}

	response.SuccessResponse(c, resp)
}

// Reset handles the reset endpoint.
func (gc *GameController) Reset(c *gin.Context) {
	state, err := gc.gameService.Reset(c.Request.Context(), c.Param("id"))
	if err != nil {
		gc.fail(c, err)
		return
	}

	response.SuccessResponse(c, state)
}

// EndGame handles the game deletion endpoint.
func (gc *GameController) EndGame(c *gin.Context) {
	id := c.Param("id")
	if err := gc.gameService.EndGame(c.Request.Context(), id); err != nil {
		gc.fail(c, err)
		return
	}

	response.SuccessResponse(c, gin.H{"id": id})
}

func (gc *GameController) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrGameNotFound):
		response.ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrInvalidIndex),
		errors.Is(err, game.ErrEmptyName),
		errors.Is(err, game.ErrInvalidMark),
		errors.Is(err, game.ErrDuplicateMark):
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
	default:
		slog.ErrorContext(c.Request.Context(), "game request failed", "http.path", c.FullPath(), "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "internal error")
	}
}
