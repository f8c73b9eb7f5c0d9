// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package compare provides the HTTP client for the archive comparison service.
//
// The service accepts two zip archives as a multipart upload (fields "zip1"
// and "zip2") and answers with a JSON ComparisonResult. Archives are probed
// locally before upload so unreadable inputs fail without a request.
//
// # Usage
//
//	client := compare.NewClient()
//	result, err := client.Compare(ctx, "v1.zip", "v2.zip")
//	if err != nil {
//	    var cerr *compare.ClientError
//	    if errors.As(err, &cerr) && cerr.Type == compare.ErrTypeConnection {
//	        log.Println("service not reachable")
//	    }
//	}
package compare
