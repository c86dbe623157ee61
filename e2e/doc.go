// Package e2e runs every authflows scenario as a go test subtest against a
// live application. The tests are behind the e2e build tag:
//
//	BASE_URL=https://tracker.example.com TEST_USER=jsmith TEST_PASSWORD=... \
//		go test -tags e2e ./e2e
//
// Without BASE_URL the suite starts the built-in fake application.
package e2e
