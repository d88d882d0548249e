package runtime

// registerAll populates the registry with every symbol the generated C
// translation unit may call (spec.md section 4.7). The signatures mirror
// internal/codegen's runtimeExternBlock constant; the two are kept in sync
// by hand since the extern block is rendered as fixed C text rather than
// generated from this table (spec.md section 6 fixes the exact output file
// shape, so templating it from Go data would just be indirection).
func registerAll() {
	register(CatArena, "rt_arena_create", "RtArena *rt_arena_create(RtArena *parent)")
	register(CatArena, "rt_arena_destroy", "void rt_arena_destroy(RtArena *a)")
	register(CatArena, "rt_arena_alloc", "void *rt_arena_alloc(RtArena *a, size_t nbytes)")

	register(CatThread, "rt_thread_spawn", "RtThreadHandle *rt_thread_spawn(void *wrapper, void *args)")
	register(CatThread, "rt_thread_join", "void *rt_thread_join(RtThreadHandle *h)")

	register(CatString, "rt_string_concat", "char *rt_string_concat(RtArena *a, const char *x, const char *y)")
	register(CatString, "rt_string_length", "long rt_string_length(const char *s)")
	register(CatString, "rt_string_substring", "char *rt_string_substring(RtArena *a, const char *s, long start, long end)")
	register(CatString, "rt_string_index_of", "long rt_string_index_of(const char *s, const char *needle)")
	register(CatString, "rt_string_split", "char **rt_string_split(RtArena *a, const char *s, const char *sep, long *out_len)")
	register(CatString, "rt_string_trim", "char *rt_string_trim(RtArena *a, const char *s)")
	register(CatString, "rt_string_upper", "char *rt_string_upper(RtArena *a, const char *s)")
	register(CatString, "rt_string_lower", "char *rt_string_lower(RtArena *a, const char *s)")
	register(CatString, "rt_string_starts_with", "int rt_string_starts_with(const char *s, const char *prefix)")
	register(CatString, "rt_string_ends_with", "int rt_string_ends_with(const char *s, const char *suffix)")
	register(CatString, "rt_string_contains", "int rt_string_contains(const char *s, const char *needle)")
	register(CatString, "rt_string_replace", "char *rt_string_replace(RtArena *a, const char *s, const char *old, const char *new_)")
	register(CatString, "rt_string_char_at", "char rt_string_char_at(const char *s, long idx)")

	for _, suf := range []string{"long", "double", "char", "bool", "byte", "string", "ptr"} {
		register(CatPrint, "rt_print_"+suf, "void rt_print_"+suf+"(...)")
		register(CatConvert, "rt_to_string_"+suf, "char *rt_to_string_"+suf+"(RtArena *a, ...)")
	}
	register(CatFormat, "rt_format_long", "char *rt_format_long(RtArena *a, long v, const char *spec)")
	register(CatFormat, "rt_format_double", "char *rt_format_double(RtArena *a, double v, const char *spec)")

	for _, suf := range []string{"long", "double"} {
		register(CatArithmetic, "rt_add_"+suf, "")
		register(CatArithmetic, "rt_sub_"+suf, "")
		register(CatArithmetic, "rt_mul_"+suf, "")
		register(CatArithmetic, "rt_div_"+suf, "")
		register(CatArithmetic, "rt_neg_"+suf, "")
	}
	register(CatArithmetic, "rt_mod_long", "long rt_mod_long(long a, long b)")

	register(CatArray, "rt_array_length", "long rt_array_length(const void *arr)")
	for _, suf := range []string{"long", "double", "char", "bool", "byte", "string", "ptr"} {
		register(CatArray, "rt_array_create_"+suf, "")
	}
	for _, suf := range []string{"long", "double", "string", "ptr"} {
		register(CatArray, "rt_array_push_"+suf, "")
	}
	register(CatArray, "rt_array_pop_long", "")
	register(CatArray, "rt_array_pop_ptr", "")
	register(CatArray, "rt_array_concat_long", "")
	register(CatArray, "rt_array_concat_ptr", "")
	register(CatArray, "rt_array_slice_long", "")
	register(CatArray, "rt_array_slice_ptr", "")
	register(CatArray, "rt_array_rev_long", "")
	register(CatArray, "rt_array_rem_long", "")
	register(CatArray, "rt_array_ins_long", "")
	register(CatArray, "rt_array_push_copy_long", "")
	register(CatArray, "rt_array_index_of_long", "")
	register(CatArray, "rt_array_contains_long", "")
	register(CatArray, "rt_array_clone_long", "")
	register(CatArray, "rt_array_clone_ptr", "")
	register(CatArray, "rt_array_join_string", "")
	register(CatArray, "rt_array_eq_long", "")

	register(CatFile, "rt_file_open", "RtFile *rt_file_open(const char *path, const char *mode)")
	register(CatFile, "rt_file_close", "void rt_file_close(RtFile *f)")
	register(CatFile, "rt_file_read_all_text", "char *rt_file_read_all_text(RtArena *a, const char *path)")
	register(CatFile, "rt_file_write_all_text", "int rt_file_write_all_text(const char *path, const char *contents)")
	register(CatFile, "rt_file_read_bytes", "long rt_file_read_bytes(RtFile *f, unsigned char *buf, long n)")
	register(CatFile, "rt_file_write_bytes", "long rt_file_write_bytes(RtFile *f, const unsigned char *buf, long n)")

	register(CatStream, "rt_stdout_write", "void rt_stdout_write(const char *s)")
	register(CatStream, "rt_stderr_write", "void rt_stderr_write(const char *s)")
	register(CatStream, "rt_stdin_read_line", "char *rt_stdin_read_line(RtArena *a)")

	register(CatPathDir, "rt_path_exists", "int rt_path_exists(const char *path)")
	register(CatPathDir, "rt_path_join", "char *rt_path_join(RtArena *a, const char *x, const char *y)")
	register(CatPathDir, "rt_dir_create", "int rt_dir_create(const char *path)")
	register(CatPathDir, "rt_dir_list", "char **rt_dir_list(RtArena *a, const char *path, long *out_len)")

	register(CatBytes, "rt_base64_decode", "unsigned char *rt_base64_decode(RtArena *a, const char *s, long *out_len)")
	register(CatBytes, "rt_base64_encode", "char *rt_base64_encode(RtArena *a, const unsigned char *buf, long len)")
	register(CatBytes, "rt_hex_encode", "char *rt_hex_encode(RtArena *a, const unsigned char *buf, long len)")
	register(CatBytes, "rt_hex_decode", "unsigned char *rt_hex_decode(RtArena *a, const char *s, long *out_len)")

	register(CatBuilder, "rt_sb_create", "RtStringBuilder *rt_sb_create(RtArena *a)")
	register(CatBuilder, "rt_sb_append", "void rt_sb_append(RtStringBuilder *sb, const char *s)")
	register(CatBuilder, "rt_sb_to_string", "char *rt_sb_to_string(RtArena *a, RtStringBuilder *sb)")

	register(CatTime, "rt_time_now_millis", "long rt_time_now_millis(void)")
	register(CatTime, "rt_time_sleep_millis", "void rt_time_sleep_millis(long ms)")
}
