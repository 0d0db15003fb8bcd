package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/FatihZee/tele-bot/domain/dto"
	"github.com/FatihZee/tele-bot/domain/repository"
	"github.com/FatihZee/tele-bot/infrastructure/cache"
	"github.com/FatihZee/tele-bot/infrastructure/logger"
)

type IVideoHandler interface {
	List(ctx *gin.Context)
	Stats(ctx *gin.Context)
}

type VideoHandler struct {
	videoRepository repository.IVideoRecord
	statsCache      cache.IStatsCache
}

func NewVideoHandler(videoRepository repository.IVideoRecord, statsCache cache.IStatsCache) IVideoHandler {
	return &VideoHandler{videoRepository: videoRepository, statsCache: statsCache}
}

// List returns the most recent download records, newest first.
func (h *VideoHandler) List(ctx *gin.Context) {
	var limit int64
	if v := ctx.Query("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}

	var res dto.Res
	records, err := h.videoRepository.List(ctx.Request.Context(), limit)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while listing video records")
		res.ResponseCode = "500"
		res.ResponseMessage = "Error while listing video records"
		ctx.JSON(http.StatusInternalServerError, res)
		return
	}

	res.ResponseCode = "200"
	res.ResponseMessage = "Success"
	res.Data = records
	ctx.JSON(http.StatusOK, res)
}

// Stats combines the store's record count with the per-platform counters
// kept in redis. The counters are best effort; an unreachable cache yields
// an empty breakdown, not an error.
func (h *VideoHandler) Stats(ctx *gin.Context) {
	var res dto.Res
	total, err := h.videoRepository.Count(ctx.Request.Context())
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while counting video records")
		res.ResponseCode = "500"
		res.ResponseMessage = "Error while counting video records"
		ctx.JSON(http.StatusInternalServerError, res)
		return
	}

	byPlatform, err := h.statsCache.TotalsByPlatform(ctx.Request.Context())
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Stats cache unavailable")
		byPlatform = map[string]int64{}
	}

	res.ResponseCode = "200"
	res.ResponseMessage = "Success"
	res.Data = dto.ResStats{TotalDownloads: total, ByPlatform: byPlatform}
	ctx.JSON(http.StatusOK, res)
}
