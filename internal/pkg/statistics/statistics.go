package statistics

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/pixora-app/pixora/app/models"
	"github.com/pixora-app/pixora/internal/pkg/cache"
	"github.com/pixora-app/pixora/internal/pkg/database"
)

const (
	CacheKeyMediaTotal = "statistics:media:total"
	CacheKeyMediaDaily = "statistics:media:daily:%s" // Format with date YYYY-MM-DD
	CacheKeyUsers      = "statistics:users:total"
	CacheExpiration    = 30 * time.Minute
)

// StatisticsData holds the counters shown on the home page.
type StatisticsData struct {
	TodayMedia int
	TotalUsers int
	TotalMedia int
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// ShouldUpdateCache reports whether the cached counters are stale.
func ShouldUpdateCache() bool {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	return time.Since(lastCacheUpdate) > cacheUpdateInterval
}

// UpdateCacheIfNeeded refreshes the cached counters when they are stale.
func UpdateCacheIfNeeded() {
	if ShouldUpdateCache() {
		cacheUpdateMutex.Lock()
		defer cacheUpdateMutex.Unlock()

		if err := UpdateStatisticsCache(); err != nil {
			log.Printf("Error updating statistics cache: %v", err)
		} else {
			lastCacheUpdate = time.Now()
		}
	}
}

// UpdateStatisticsCache recounts all statistics and stores them in the cache.
func UpdateStatisticsCache() error {
	db := database.GetDB()

	var totalMedia int64
	if err := db.Model(&models.Media{}).Count(&totalMedia).Error; err != nil {
		log.Printf("Error counting total media: %v", err)
		return err
	}

	var todayMedia int64
	today := time.Now().Format("2006-01-02")
	todayStart, _ := time.Parse("2006-01-02", today)
	todayEnd := todayStart.Add(24 * time.Hour)

	if err := db.Model(&models.Media{}).Where("created_at BETWEEN ? AND ?", todayStart, todayEnd).Count(&todayMedia).Error; err != nil {
		log.Printf("Error counting today's media: %v", err)
		return err
	}

	var totalUsers int64
	if err := db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		log.Printf("Error counting total users: %v", err)
		return err
	}

	if err := cache.Set(CacheKeyMediaTotal, strconv.FormatInt(totalMedia, 10), CacheExpiration); err != nil {
		log.Printf("Error caching total media: %v", err)
		return err
	}

	dailyKey := fmt.Sprintf(CacheKeyMediaDaily, today)
	if err := cache.Set(dailyKey, strconv.FormatInt(todayMedia, 10), CacheExpiration); err != nil {
		log.Printf("Error caching today's media: %v", err)
		return err
	}

	if err := cache.Set(CacheKeyUsers, strconv.FormatInt(totalUsers, 10), CacheExpiration); err != nil {
		log.Printf("Error caching total users: %v", err)
		return err
	}

	return nil
}

// GetTotalMedia returns the total number of uploads from cache or database.
func GetTotalMedia() int {
	val, err := cache.Get(CacheKeyMediaTotal)
	if err != nil {
		var count int64
		db := database.GetDB()
		if err := db.Model(&models.Media{}).Count(&count).Error; err != nil {
			log.Printf("Error counting total media: %v", err)
			return 0
		}

		if err := cache.Set(CacheKeyMediaTotal, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
			log.Printf("Error caching total media: %v", err)
		}

		return int(count)
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0
	}

	return int(count)
}

// GetTodayMedia returns the number of uploads made today from cache or database.
func GetTodayMedia() int {
	today := time.Now().Format("2006-01-02")
	dailyKey := fmt.Sprintf(CacheKeyMediaDaily, today)

	val, err := cache.Get(dailyKey)
	if err != nil {
		var count int64
		db := database.GetDB()
		todayStart, _ := time.Parse("2006-01-02", today)
		todayEnd := todayStart.Add(24 * time.Hour)

		if err := db.Model(&models.Media{}).Where("created_at BETWEEN ? AND ?", todayStart, todayEnd).Count(&count).Error; err != nil {
			log.Printf("Error counting today's media: %v", err)
			return 0
		}

		if err := cache.Set(dailyKey, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
			log.Printf("Error caching today's media: %v", err)
		}

		return int(count)
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0
	}

	return int(count)
}

// GetTotalUsers returns the total number of users from cache or database.
func GetTotalUsers() int {
	val, err := cache.Get(CacheKeyUsers)
	if err != nil {
		var count int64
		db := database.GetDB()
		if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
			log.Printf("Error counting total users: %v", err)
			return 0
		}

		if err := cache.Set(CacheKeyUsers, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
			log.Printf("Error caching total users: %v", err)
		}

		return int(count)
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0
	}

	return int(count)
}

// GetStatisticsData returns all home page counters, refreshing the cache if stale.
func GetStatisticsData() StatisticsData {
	UpdateCacheIfNeeded()

	return StatisticsData{
		TodayMedia: GetTodayMedia(),
		TotalUsers: GetTotalUsers(),
		TotalMedia: GetTotalMedia(),
	}
}
