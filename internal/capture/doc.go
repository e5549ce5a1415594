// Package capture produces the visual artifact for a target page through a
// three-tier degradation chain: external screenshot services, an in-process
// headless render, and finally a synthetic diagram. The chain never fails
// outward; exactly one artifact is always returned.
package capture
