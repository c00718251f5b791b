package services

import "tech-blog/repositories/repotest"

var (
	_ PostStore      = (*repotest.MemStore)(nil)
	_ AnalyticsStore = (*repotest.MemStore)(nil)
)
