/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix prefixes the Redis keys written by Dedupe.
const KeyPrefix = "dcatch:notify:"

// Store is the subset of a go-redis client used by Dedupe. *redis.Client
// and *redis.ClusterClient satisfy it.
type Store interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
}

type dedupe struct {
	next  Publisher
	store Store
	ttl   time.Duration
}

// Dedupe publishes each event type through p at most once per ttl. The
// first event of a window claims the key; later ones are dropped silently.
// Store failures are returned and the event is not published.
func Dedupe(p Publisher, store Store, ttl time.Duration) Publisher {
	return &dedupe{next: p, store: store, ttl: ttl}
}

func (d *dedupe) Publish(ctx context.Context, e Event) error {
	claimed, err := d.store.SetNX(ctx, KeyPrefix+e.Type, e.Time.Unix(), d.ttl).Result()
	if err != nil {
		return fmt.Errorf("notify: dedupe %s: %w", e.Type, err)
	}
	if !claimed {
		return nil
	}
	return d.next.Publish(ctx, e)
}
