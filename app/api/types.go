package api

import (
	"github.com/campusdining/menu-comb/app/config"
	"github.com/campusdining/menu-comb/app/database"
	"github.com/campusdining/menu-comb/app/tasks"
)

type Handler struct {
	itemRepo  database.FoodItemRepository
	locations []config.Location
	scheduler tasks.TaskSchedulerInterface
	runner    tasks.ScrapeRunner
}
