// Package shared holds cross-cutting utilities used by every component of
// the beacon node: the service registry that owns every long-running
// subsystem, plus small wrappers (logging, tracing, config) that keep
// package-level concerns out of the domain code.
package shared

import (
	"fmt"
	"reflect"
	"sync"
)

// Service is the minimal lifecycle contract every long-running subsystem of
// the beacon node implements. Status should return nil while the service is
// healthy and a descriptive error otherwise; it must never block.
type Service interface {
	Start()
	Stop() error
	Status() error
}

// ServiceRegistry provides a useful pattern for managing services.
// It allows for ease of dependency management and ensures services
// dependent on others use the same references in memory.
type ServiceRegistry struct {
	lock     sync.RWMutex
	services map[reflect.Type]Service // map of types to services.
	order    []reflect.Type           // keep an ordered slice of registered service types.
}

// NewServiceRegistry starts a registry instance for convenience
func NewServiceRegistry() *ServiceRegistry {
	return &ServiceRegistry{
		services: make(map[reflect.Type]Service),
	}
}

// StartAll initialized each service in order of registration.
func (s *ServiceRegistry) StartAll() {
	s.lock.Lock()
	defer s.lock.Unlock()
	for _, kind := range s.order {
		s.services[kind].Start()
	}
}

// StopAll ends every service in reverse order of registration, ensuring
// services are torn down in the opposite order from which they were built up
// (so that a later service, which may depend on an earlier one, is stopped
// first).
func (s *ServiceRegistry) StopAll() {
	s.lock.Lock()
	defer s.lock.Unlock()
	for i := len(s.order) - 1; i >= 0; i-- {
		kind := s.order[i]
		if err := s.services[kind].Stop(); err != nil {
			panic(fmt.Sprintf("Could not stop the following service: %v, %v", kind, err))
		}
	}
}

// Statuses returns a map of Service type -> error. If err is nil, the
// service is healthy.
func (s *ServiceRegistry) Statuses() map[reflect.Type]error {
	s.lock.RLock()
	defer s.lock.RUnlock()
	m := make(map[reflect.Type]error, len(s.order))
	for _, kind := range s.order {
		m[kind] = s.services[kind].Status()
	}
	return m
}

// RegisterService appends a service constructed by the caller to the service
// registry.
func (s *ServiceRegistry) RegisterService(service Service) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	kind := reflect.TypeOf(service)
	if _, exists := s.services[kind]; exists {
		return fmt.Errorf("service already exists: %v", kind)
	}
	s.services[kind] = service
	s.order = append(s.order, kind)
	return nil
}

// FetchService takes in a struct pointer and sets the value
// of that pointer to a service currently stored in the service
// registry. This ensures we don't need to manage short-lived references
// to the service in the entire codebase, in cases where it
// may be initialized on a one-time basis.
func (s *ServiceRegistry) FetchService(service interface{}) error {
	s.lock.RLock()
	defer s.lock.RUnlock()
	pointer := reflect.ValueOf(service)
	if pointer.Kind() != reflect.Ptr {
		return fmt.Errorf("input must be of pointer type, received value type instead: %T", service)
	}
	element := pointer.Elem()
	if running, ok := s.services[element.Type()]; ok {
		element.Set(reflect.ValueOf(running))
		return nil
	}
	return fmt.Errorf("unknown service: %T", service)
}
