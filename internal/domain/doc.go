// Package domain contains the core entities and value objects of the poster
// workflow: aspect ratios, video generation tasks and their statuses. It is
// independent of any specific infrastructure or delivery mechanism.
package domain
