package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusdining/menu-comb/app/config"
	"github.com/campusdining/menu-comb/app/database"
	"github.com/campusdining/menu-comb/app/tasks"
)

const maxItemsLimit = 1000

func NewHandler(itemRepo database.FoodItemRepository, locations []config.Location,
	scheduler tasks.TaskSchedulerInterface, runner tasks.ScrapeRunner) *Handler {
	return &Handler{
		itemRepo:  itemRepo,
		locations: locations,
		scheduler: scheduler,
		runner:    runner,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if itemCount, err := h.itemRepo.GetItemCount(c.Request.Context()); err == nil {
		health["items"] = itemCount
	}

	health["configured_locations"] = len(h.locations)

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.itemRepo.GetLocationStats(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "get_location_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	locations := make([]map[string]interface{}, 0, len(stats))
	total := 0
	for _, stat := range stats {
		locations = append(locations, map[string]interface{}{
			"location":   stat.Location,
			"dates":      stat.Dates,
			"item_count": stat.ItemCount,
		})
		total += stat.ItemCount
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"locations":   locations,
		"total_items": total,
	})
}

func (h *Handler) APIGetItems(c *gin.Context) {
	filter := database.ItemFilter{
		Location: c.Query("location"),
		Date:     c.Query("date"),
		MealType: c.Query("meal"),
		Limit:    maxItemsLimit,
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		if limit < filter.Limit {
			filter.Limit = limit
		}
	}

	items, err := h.itemRepo.GetItems(c.Request.Context(), filter)
	if err != nil {
		slog.Error("Database error", "operation", "get_items", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	results := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		results = append(results, map[string]interface{}{
			"name":          item.Name,
			"serving_size":  item.ServingSize,
			"calories":      item.Calories,
			"total_fat":     item.TotalFat,
			"sodium":        item.Sodium,
			"total_carb":    item.TotalCarb,
			"dietary_fiber": item.DietaryFiber,
			"sugars":        item.Sugars,
			"protein":       item.Protein,
			"location":      item.Location,
			"date":          item.Date,
			"meal_type":     item.MealType,
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"items": results,
		"total": len(results),
	})
}

func (h *Handler) APIGetDates(c *gin.Context) {
	location := c.Param("location")
	if location == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing location parameter"})
		return
	}

	dates, err := h.itemRepo.GetDates(c.Request.Context(), location)
	if err != nil {
		slog.Error("Database error", "operation", "get_dates", "location", location, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"location": location,
		"dates":    dates,
	})
}

func (h *Handler) APITriggerScrape(c *gin.Context) {
	task := tasks.NewScrapeTask(h.runner, "api")

	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Error enqueueing scrape task", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to enqueue scrape task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Scrape task enqueued",
		"task": gin.H{
			"id":   task.ID,
			"type": task.Type,
		},
	})
}
