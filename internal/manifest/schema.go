package manifest

// ManifestSchemaYAML documents the snc.manifest/v1 shape for humans editing
// a manifest by hand; it is not consulted by Validate (which checks the Go
// struct directly), matching the teacher's documentation-only treatment of
// its JSON counterpart.
const ManifestSchemaYAML = `
schema: snc.manifest/v1
schema_digest: sha256:...
generated_at: 2026-01-01T00:00:00Z
generator: snc -manifest
scenarios:
  - path: s1_promotion.sn      # relative path to the .sn source, required
    status: working            # working | failing
    tags: [arithmetic, promotion]
    description: numeric promotion across a mixed-type expression
    expected:
      contains:
        - "rt_mul_double"
  - path: s5_escape.sn
    status: failing
    failing:
      reason: reference escapes its owning private block
      diagnostics: [TYP007]
statistics:
  total: 2
  working: 1
  failing: 1
  coverage: 0.5
`
