package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const megabyte = 1024 * 1024

// DayCountSource is the authoritative store of routine day counts.
type DayCountSource interface {
	CountByRoutineID(ctx context.Context, routineID primitive.ObjectID) (int, error)
}

// DayCountCache is a read-through cache in front of a DayCountSource.
// Routine days do not change once a routine is created, so stale entries only
// live until the TTL expires.
type DayCountCache struct {
	cache         *freecache.Cache
	source        DayCountSource
	expireSeconds int
}

func NewDayCountCache(source DayCountSource, sizeMB int, ttl time.Duration) *DayCountCache {
	if sizeMB <= 0 {
		sizeMB = 1
	}
	expire := int(ttl / time.Second)
	if expire <= 0 {
		expire = 60
	}
	return &DayCountCache{
		cache:         freecache.NewCache(sizeMB * megabyte),
		source:        source,
		expireSeconds: expire,
	}
}

func (c *DayCountCache) CountByRoutineID(ctx context.Context, routineID primitive.ObjectID) (int, error) {
	cacheKey := []byte("routine-days::" + routineID.Hex())
	if countBytes, err := c.cache.Get(cacheKey); err == nil {
		count, err := strconv.Atoi(string(countBytes))
		if err == nil {
			log.Tracef("found day count for routine %s in cache", routineID.Hex())
			return count, nil
		}
		log.Errorf("failed to decode cached day count for routine %s: %s", routineID.Hex(), err)
	}

	count, err := c.source.CountByRoutineID(ctx, routineID)
	if err != nil {
		return 0, fmt.Errorf("count routine days: %w", err)
	}

	// An empty routine may still be getting its days inserted.
	if count == 0 {
		return 0, nil
	}

	if err := c.cache.Set(cacheKey, []byte(strconv.Itoa(count)), c.expireSeconds); err != nil {
		log.Errorf("failed to cache day count for routine %s: %s", routineID.Hex(), err)
	}
	return count, nil
}
