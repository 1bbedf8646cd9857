// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

package demo

import "context"

// Repository defines the data access contract for demo requests.
type Repository interface {

	// Create persists a new request; CreatedAt is set when zero.
	Create(context context.Context, request *Request) error

	/*
		List returns one page of requests, newest first.

		Returns:
		  - []*Request: The page
		  - int: Total number of stored requests
		  - error: Database retrieval failures
	*/
	List(context context.Context, limit, offset int) ([]*Request, int, error)
}
