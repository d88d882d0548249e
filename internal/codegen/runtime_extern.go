package codegen

// runtimeExternBlock enumerates the runtime library's contract (spec.md
// section 4.7): every symbol generated code may call is declared here so
// the translation unit type-checks against the runtime's headers without
// needing to #include the runtime's own sources. The exact signatures are
// the contract the runtime implementation must honour; this compiler never
// defines them, only declares and calls them.
const runtimeExternBlock = `/* --- runtime interface (extern contract, spec.md section 4.7) --- */

typedef struct RtArena RtArena;
extern RtArena *rt_arena_create(RtArena *parent);
extern void rt_arena_destroy(RtArena *a);
extern void *rt_arena_alloc(RtArena *a, size_t nbytes);

typedef struct __Closure__ {
	void *fn;
	RtArena *arena;
	void *captures;
} __Closure__;

typedef struct RtThreadHandle RtThreadHandle;
extern RtThreadHandle *rt_thread_spawn(void *wrapper, void *args);
extern void *rt_thread_join(RtThreadHandle *h);

extern char *rt_string_concat(RtArena *a, const char *x, const char *y);
extern long rt_string_length(const char *s);
extern char *rt_string_substring(RtArena *a, const char *s, long start, long end);
extern long rt_string_index_of(const char *s, const char *needle);
extern char **rt_string_split(RtArena *a, const char *s, const char *sep, long *out_len);
extern char *rt_string_trim(RtArena *a, const char *s);
extern char *rt_string_upper(RtArena *a, const char *s);
extern char *rt_string_lower(RtArena *a, const char *s);
extern int rt_string_starts_with(const char *s, const char *prefix);
extern int rt_string_ends_with(const char *s, const char *suffix);
extern int rt_string_contains(const char *s, const char *needle);
extern char *rt_string_replace(RtArena *a, const char *s, const char *old, const char *new_);
extern char rt_string_char_at(const char *s, long idx);

extern void rt_print_long(long v);
extern void rt_print_double(double v);
extern void rt_print_char(char v);
extern void rt_print_bool(int v);
extern void rt_print_byte(unsigned char v);
extern void rt_print_string(const char *v);
extern void rt_print_ptr(const void *v);

extern char *rt_to_string_long(RtArena *a, long v);
extern char *rt_to_string_double(RtArena *a, double v);
extern char *rt_to_string_char(RtArena *a, char v);
extern char *rt_to_string_bool(RtArena *a, int v);
extern char *rt_to_string_byte(RtArena *a, unsigned char v);
extern char *rt_to_string_string(RtArena *a, const char *v);

extern char *rt_format_long(RtArena *a, long v, const char *spec);
extern char *rt_format_double(RtArena *a, double v, const char *spec);

extern long rt_add_long(long a, long b);
extern long rt_sub_long(long a, long b);
extern long rt_mul_long(long a, long b);
extern long rt_div_long(long a, long b);
extern long rt_mod_long(long a, long b);
extern long rt_neg_long(long a);
extern double rt_add_double(double a, double b);
extern double rt_sub_double(double a, double b);
extern double rt_mul_double(double a, double b);
extern double rt_div_double(double a, double b);
extern double rt_neg_double(double a);

extern long rt_array_length(const void *arr);
extern void *rt_array_create_long(RtArena *a, long n, long init[]);
extern void *rt_array_create_double(RtArena *a, long n, double init[]);
extern void *rt_array_create_char(RtArena *a, long n, char init[]);
extern void *rt_array_create_bool(RtArena *a, long n, int init[]);
extern void *rt_array_create_byte(RtArena *a, long n, unsigned char init[]);
extern void *rt_array_create_string(RtArena *a, long n, char *init[]);
extern void *rt_array_create_ptr(RtArena *a, long n, void *init[]);
extern void *rt_array_push_long(RtArena *a, void *arr, long v);
extern void *rt_array_push_double(RtArena *a, void *arr, double v);
extern void *rt_array_push_string(RtArena *a, void *arr, char *v);
extern void *rt_array_push_ptr(RtArena *a, void *arr, void *v);
extern void *rt_array_pop_long(void *arr, long *out);
extern void *rt_array_pop_ptr(void *arr, void **out);
extern void *rt_array_concat_long(RtArena *a, void *x, void *y);
extern void *rt_array_concat_ptr(RtArena *a, void *x, void *y);
extern void *rt_array_slice_long(RtArena *a, void *arr, long start, long end, long step);
extern void *rt_array_slice_ptr(RtArena *a, void *arr, long start, long end, long step);
extern void *rt_array_rev_long(RtArena *a, void *arr);
extern void *rt_array_rem_long(void *arr, long idx);
extern void *rt_array_ins_long(RtArena *a, void *arr, long idx, long v);
extern void *rt_array_push_copy_long(RtArena *a, void *arr, long v);
extern long rt_array_index_of_long(void *arr, long v);
extern int rt_array_contains_long(void *arr, long v);
extern void *rt_array_clone_long(RtArena *a, void *arr);
extern void *rt_array_clone_ptr(RtArena *a, void *arr);
extern char *rt_array_join_string(RtArena *a, void *arr, const char *sep);
extern int rt_array_eq_long(void *x, void *y);

typedef struct RtFile RtFile;
extern RtFile *rt_file_open(const char *path, const char *mode);
extern void rt_file_close(RtFile *f);
extern char *rt_file_read_all_text(RtArena *a, const char *path);
extern int rt_file_write_all_text(const char *path, const char *contents);
extern long rt_file_read_bytes(RtFile *f, unsigned char *buf, long n);
extern long rt_file_write_bytes(RtFile *f, const unsigned char *buf, long n);

extern void rt_stdout_write(const char *s);
extern void rt_stderr_write(const char *s);
extern char *rt_stdin_read_line(RtArena *a);

extern int rt_path_exists(const char *path);
extern char *rt_path_join(RtArena *a, const char *x, const char *y);
extern int rt_dir_create(const char *path);
extern char **rt_dir_list(RtArena *a, const char *path, long *out_len);

extern unsigned char *rt_base64_decode(RtArena *a, const char *s, long *out_len);
extern char *rt_base64_encode(RtArena *a, const unsigned char *buf, long len);
extern char *rt_hex_encode(RtArena *a, const unsigned char *buf, long len);
extern unsigned char *rt_hex_decode(RtArena *a, const char *s, long *out_len);

typedef struct RtStringBuilder RtStringBuilder;
extern RtStringBuilder *rt_sb_create(RtArena *a);
extern void rt_sb_append(RtStringBuilder *sb, const char *s);
extern char *rt_sb_to_string(RtArena *a, RtStringBuilder *sb);

extern long rt_time_now_millis(void);
extern void rt_time_sleep_millis(long ms);
`
